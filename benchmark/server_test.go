package benchmark

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"testing"
)

// Benchmarks against a running server. Set PETITION_BENCH_URL (for example
// http://localhost:3000) and, for the admin listing, PETITION_BENCH_USER and
// PETITION_BENCH_PASSWORD.

func benchURL(b *testing.B) string {
	b.Helper()
	base := os.Getenv("PETITION_BENCH_URL")
	if base == "" {
		b.Skip("PETITION_BENCH_URL not set, skipping benchmark")
	}
	return strings.TrimSuffix(base, "/")
}

// loggedInClient returns a client holding an administrator session
func loggedInClient(b *testing.B, base string) *http.Client {
	b.Helper()
	user, password := os.Getenv("PETITION_BENCH_USER"), os.Getenv("PETITION_BENCH_PASSWORD")
	if user == "" || password == "" {
		b.Skip("PETITION_BENCH_USER or PETITION_BENCH_PASSWORD not set")
	}

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.PostForm(base+"/login", url.Values{"username": {user}, "password": {password}})
	if err != nil {
		b.Fatal(err)
	}
	_ = resp.Body.Close()
	return client
}

func BenchmarkPublicPages(b *testing.B) {
	base := benchURL(b)

	b.Run("GET /", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			resp, err := http.Get(base + "/")
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})

	b.Run("GET /status", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			resp, err := http.Get(base + "/status")
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})
}

func BenchmarkAdminListing(b *testing.B) {
	base := benchURL(b)
	client := loggedInClient(b, base)

	for _, query := range []string{"offset=0&limit=50", "offset=450&limit=50", "offset=0&limit=500"} {
		b.Run("GET /admin/?"+query, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				r, _ := http.NewRequest("GET", base+"/admin/?"+query, nil)
				r.Header.Set("Accept", "application/json")
				resp, err := client.Do(r)
				if err == nil {
					_ = resp.Body.Close()
				}
			}
		})
	}
}

func BenchmarkAdminListingParallel(b *testing.B) {
	base := benchURL(b)
	client := loggedInClient(b, base)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			r, _ := http.NewRequest("GET", base+"/admin?format=json", nil)
			resp, err := client.Do(r)
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})
}
