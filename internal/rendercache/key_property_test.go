package rendercache

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestComputeKey_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("differing bodies yield differing keys", prop.ForAll(
		func(bodyA, bodyB string) bool {
			if bodyA == bodyB {
				return true
			}

			a := basePost()
			a.Body = bodyA

			b := basePost()
			b.Body = bodyB

			return ComputeKey(a).Hash != ComputeKey(b).Hash
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("differing titles yield differing keys", prop.ForAll(
		func(titleA, titleB string) bool {
			if titleA == titleB {
				return true
			}

			a := basePost()
			a.Title = titleA

			b := basePost()
			b.Title = titleB

			return ComputeKey(a).Hash != ComputeKey(b).Hash
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
