package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/petition-in-go/pkg/db"
	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/petition-in-go/pkg/server/store/gorm"
)

const defaultSeedCount = 510

var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the signatures table with random data",
	Long: `Fill the signatures table with random signatures for development.

About 60% of the generated signatures are anonymous and about 60% carry a
comment. National ids colliding with existing rows are regenerated.

Example:
  petitionctl db seed
  petitionctl db seed --count 120`,
	Run: func(cmd *cobra.Command, args []string) {
		count, _ := cmd.Flags().GetInt("count")
		if count <= 0 {
			fmt.Fprintln(os.Stderr, "--count must be positive")
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{URL: databaseURL()})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to DB: %v\n", err)
			os.Exit(1)
		}

		inserted, err := seedSignatures(cmd.Context(), gormstore.NewSignaturesStore(database), newSeeder(time.Now()), count)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Seeding failed after %d signatures: %v\n", inserted, err)
			os.Exit(1)
		}
		fmt.Printf("Added %d signatures\n", inserted)
	},
}

func init() {
	dbCmd.AddCommand(dbSeedCmd)
	dbSeedCmd.Flags().IntP("count", "n", defaultSeedCount, "number of signatures to add")
}

var (
	seedFirstNames = []string{
		"Anna", "Bjarni", "Elín", "Guðrún", "Helgi", "Jón", "Katrín", "Kristján",
		"Margrét", "Ólafur", "Sigríður", "Stefán", "Þóra", "Einar", "Ásta", "Gunnar",
	}
	seedLastNames = []string{
		"Jónsdóttir", "Jónsson", "Sigurðardóttir", "Sigurðsson", "Guðmundsdóttir",
		"Guðmundsson", "Gunnarsdóttir", "Gunnarsson", "Ólafsdóttir", "Ólafsson",
	}
	seedWords = []string{
		"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing",
		"elit", "sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore",
		"et", "dolore", "magna", "aliqua",
	}
)

// seeder generates plausible random signatures
type seeder struct {
	rand *rand.Rand
	now  time.Time
}

func newSeeder(now time.Time) *seeder {
	return &seeder{
		rand: rand.New(rand.NewPCG(uint64(now.UnixNano()), 0x5eed)),
		now:  now,
	}
}

func (s *seeder) pick(words []string) string {
	return words[s.rand.IntN(len(words))]
}

func (s *seeder) signature() *model.Signature {
	signature := &model.Signature{
		Name:       s.pick(seedFirstNames) + " " + s.pick(seedLastNames),
		NationalID: fmt.Sprintf("%010d", 1000000000+s.rand.Int64N(9000000000)),
		Anonymous:  s.rand.Float64() > 0.4,
		CreatedAt:  s.now.Add(-time.Duration(s.rand.Int64N(int64(30 * 24 * time.Hour)))),
	}
	if s.rand.Float64() > 0.4 {
		signature.Comment = s.sentence()
	}
	return signature
}

func (s *seeder) sentence() string {
	words := make([]string, 4+s.rand.IntN(8))
	for i := range words {
		words[i] = s.pick(seedWords)
	}
	sentence := strings.Join(words, " ")
	return strings.ToUpper(sentence[:1]) + sentence[1:] + "."
}

const maxSeedCollisions = 100

// seedSignatures inserts count signatures, regenerating on national id
// collisions. It returns how many rows were inserted.
func seedSignatures(ctx context.Context, signatures store.SignaturesStore, s *seeder, count int) (int, error) {
	inserted, collisions := 0, 0
	for inserted < count {
		err := signatures.Create(ctx, s.signature())
		if errors.Is(err, store.ErrDuplicate) {
			collisions++
			if collisions > maxSeedCollisions {
				return inserted, fmt.Errorf("too many national id collisions")
			}
			continue
		}
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
