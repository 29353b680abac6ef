package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/petition-in-go/pkg/credential"
	"github.com/doodlesbykumbi/petition-in-go/pkg/listing"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	client       *http.Client
	response     *http.Response
	responseBody []byte
}

// NewStepsContext creates a new steps context with its own cookie jar
func NewStepsContext(tc *TestContext) *StepsContext {
	jar, _ := cookiejar.New(nil)
	return &StepsContext{
		tc: tc,
		client: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^a petition server is running$`, s.aPetitionServerIsRunning)
	sc.Step(`^an administrator "([^"]*)" with password "([^"]*)" exists$`, s.anAdministratorExists)
	sc.Step(`^(\d+) signatures exist$`, s.signaturesExist)

	// Session steps
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogIn)
	sc.Step(`^I am logged in as "([^"]*)" with password "([^"]*)"$`, s.iAmLoggedIn)
	sc.Step(`^I open "([^"]*)"$`, s.iOpen)
	sc.Step(`^I request the listing with offset (\d+) and limit (\d+) as JSON$`, s.iRequestTheListingAsJSON)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^I should be redirected to "([^"]*)"$`, s.iShouldBeRedirectedTo)
	sc.Step(`^the page should contain "([^"]*)"$`, s.thePageShouldContain)
	sc.Step(`^the page should not contain "([^"]*)"$`, s.thePageShouldNotContain)
	sc.Step(`^the listing should have (\d+) items out of (\d+)$`, s.theListingShouldHave)
	sc.Step(`^the listing should link to offset (\d+) as (previous|next)$`, s.theListingShouldLinkTo)
	sc.Step(`^there should be (\d+) signatures in the database$`, s.thereShouldBeSignatures)
}

func (s *StepsContext) aPetitionServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) anAdministratorExists(username, password string) error {
	hash, err := credential.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.tc.DB.Exec(`TRUNCATE users RESTART IDENTITY`).Error; err != nil {
		return err
	}
	return s.tc.DB.Exec(
		`INSERT INTO users (username, password, admin) VALUES (?, ?, true)`,
		username, hash,
	).Error
}

func (s *StepsContext) signaturesExist(count int) error {
	if err := s.tc.DB.Exec(`TRUNCATE signatures RESTART IDENTITY`).Error; err != nil {
		return err
	}
	return s.tc.DB.Exec(`
		INSERT INTO signatures (name, nationalid, comment, anonymous, signed)
		SELECT 'Signer ' || n, lpad(n::text, 10, '0'), '', false, now() - make_interval(mins => ? - n)
		FROM generate_series(1, ?) AS n
	`, count, count).Error
}

func (s *StepsContext) do(req *http.Request) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) iLogIn(username, password string) error {
	form := url.Values{"username": {username}, "password": {password}}
	req, err := http.NewRequest("POST", s.tc.ServerURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *StepsContext) iAmLoggedIn(username, password string) error {
	if err := s.iLogIn(username, password); err != nil {
		return err
	}
	if err := s.iOpen("/admin"); err != nil {
		return err
	}
	return s.thePageShouldContain("Signed in as " + username)
}

func (s *StepsContext) iOpen(path string) error {
	req, err := http.NewRequest("GET", s.tc.ServerURL+path, nil)
	if err != nil {
		return err
	}
	return s.do(req)
}

func (s *StepsContext) iRequestTheListingAsJSON(offset, limit int) error {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/admin/?offset=%d&limit=%d", s.tc.ServerURL, offset, limit), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return s.do(req)
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iShouldBeRedirectedTo(location string) error {
	if err := s.theResponseStatusShouldBe(http.StatusFound); err != nil {
		return err
	}
	if got := s.response.Header.Get("Location"); got != location {
		return fmt.Errorf("expected redirect to %q, got %q", location, got)
	}
	return nil
}

func (s *StepsContext) thePageShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("expected page to contain %q", text)
	}
	return nil
}

func (s *StepsContext) thePageShouldNotContain(text string) error {
	if strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("expected page not to contain %q", text)
	}
	return nil
}

func (s *StepsContext) page() (*listing.PageResult, error) {
	var page listing.PageResult
	if err := json.Unmarshal(s.responseBody, &page); err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}
	return &page, nil
}

func (s *StepsContext) theListingShouldHave(items, total int) error {
	page, err := s.page()
	if err != nil {
		return err
	}
	if len(page.Items) != items || page.Total != int64(total) {
		return fmt.Errorf("expected %d items out of %d, got %d out of %d", items, total, len(page.Items), page.Total)
	}
	return nil
}

func (s *StepsContext) theListingShouldLinkTo(offset int, rel string) error {
	page, err := s.page()
	if err != nil {
		return err
	}

	link := page.Links.Next
	if rel == "previous" {
		link = page.Links.Prev
	}
	if link == nil {
		return fmt.Errorf("listing has no %s link", rel)
	}

	href, err := url.Parse(link.Href)
	if err != nil {
		return err
	}
	if got := href.Query().Get("offset"); got != fmt.Sprint(offset) {
		return fmt.Errorf("expected %s link at offset %d, got %s", rel, offset, link.Href)
	}
	return nil
}

func (s *StepsContext) thereShouldBeSignatures(count int) error {
	var n int64
	if err := s.tc.DB.Raw(`SELECT count(*) FROM signatures`).Scan(&n).Error; err != nil {
		return err
	}
	if n != int64(count) {
		return fmt.Errorf("expected %d signatures, got %d", count, n)
	}
	return nil
}
