package markup

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genPlainText produces filler text that contains no tag markers.
func genPlainText() gopter.Gen {
	return gen.RegexMatch(`[a-z0-9 .,\n]{0,40}`)
}

func genTagName() gopter.Gen {
	return gen.RegexMatch(`[A-Z][a-zA-Z0-9]{0,8}`)
}

func TestNext_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("finds an injected self-closing tag with its exact span", prop.ForAll(
		func(before, after, tag, value string) bool {
			fragment := fmt.Sprintf(`<%s key="%s" />`, tag, value)
			content := before + fragment + after

			seg, ok := Next(content, 0)
			if !ok || seg.Kind != KindSelfClosing || seg.Tag != tag {
				return false
			}

			return content[seg.Start:seg.Start+seg.Length] == fragment
		},
		genPlainText(),
		genPlainText(),
		genTagName(),
		gen.RegexMatch(`[a-z0-9./-]{0,12}`),
	))

	properties.Property("self-closing wins iff it starts at or before the block", prop.ForAll(
		func(gap, tag string, selfFirst bool) bool {
			self := fmt.Sprintf(`<%s />`, tag)
			block := fmt.Sprintf(`<%s>body</%s>`, tag, tag)

			var content string
			if selfFirst {
				content = self + gap + block
			} else {
				content = block + gap + self
			}

			seg, ok := Next(content, 0)
			if !ok {
				return false
			}

			if selfFirst {
				return seg.Kind == KindSelfClosing
			}

			return seg.Kind == KindBlock
		},
		genPlainText(),
		genTagName(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
