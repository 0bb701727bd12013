package factories

import (
	"math/rand"

	"github.com/jaswdr/faker"
)

// NewFaker returns a faker seeded with seed, or a randomly seeded one when
// seed is zero.
func NewFaker(seed int64) faker.Faker {
	if seed == 0 {
		return faker.New()
	}
	return faker.NewWithSeed(rand.NewSource(seed))
}
