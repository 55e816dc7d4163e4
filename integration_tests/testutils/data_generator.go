package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"

	accountdb "github.com/moorad/the-beautiful-bot/app/modules/account/infrastructure/repositories"
)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s)), seed: s}
}

// Seed returns the seed, for reproducing a failing run.
func (g *TestDataGenerator) Seed() int64 {
	return g.seed
}

// DiscordID returns an 18 digit snowflake.
func (g *TestDataGenerator) DiscordID() string {
	return g.faker.Numerify("1#################")
}

// OsuUsername returns a name within osu!'s 15 character limit.
func (g *TestDataGenerator) OsuUsername() string {
	name := g.faker.Username()
	if len(name) > 15 {
		name = name[:15]
	}
	return name
}

// LinkedAccount returns an unverified link with random mode and type.
func (g *TestDataGenerator) LinkedAccount() *accountdb.LinkedAccount {
	return &accountdb.LinkedAccount{
		DiscordID:   g.DiscordID(),
		OsuUsername: g.OsuUsername(),
		Mode:        g.faker.Number(0, 3),
		Type:        g.faker.Number(0, 2),
	}
}
