package osu_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/moorad/the-beautiful-bot/integration_tests/testutils"
)

var testEnv *testutils.TestEnvironment

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Println("Skipping osu integration tests in short mode")
		os.Exit(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	env, err := testutils.NewTestEnvironment(ctx, testutils.Options{NATS: true})
	cancel()
	if err != nil {
		fmt.Printf("Failed to set up test environment: %v\n", err)
		os.Exit(1)
	}
	testEnv = env

	code := m.Run()
	testEnv.Close(context.Background())
	os.Exit(code)
}
