package integration

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

func TestPetitionFeatures(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("Skipping integration tests. Set INTEGRATION_TEST=1 to run.")
	}

	ctx := t.Context()
	tc, err := NewTestContext(ctx)
	if err != nil {
		t.Fatalf("start petition stack: %v", err)
	}
	// t.Context is already cancelled when cleanups run
	t.Cleanup(func() { tc.Close(context.Background()) })

	// PETITION_FEATURE_TAGS narrows the run, e.g. "@admin && ~@slow"
	suite := godog.TestSuite{
		Name: "petition",
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			NewStepsContext(tc).RegisterSteps(sc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Tags:     os.Getenv("PETITION_FEATURE_TAGS"),
			Strict:   true,
			TestingT: t,
		},
	}

	if status := suite.Run(); status != 0 {
		t.Fatalf("feature suite exited with status %d", status)
	}
}
