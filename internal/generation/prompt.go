package generation

import (
	"fmt"
	"strings"
)

// buildTryOnPrompt frames the composed try-on request: the garment images
// come first, then the optional person reference, then this instruction.
func buildTryOnPrompt(scene string, itemCount int, hasReference bool) string {
	var b strings.Builder
	b.WriteString("You are a virtual try-on stylist producing a single photorealistic fashion photo.\n")
	if hasReference {
		b.WriteString(fmt.Sprintf("Dress the person from the last reference photo in the %d garment(s) shown above.\n", itemCount))
	} else {
		b.WriteString(fmt.Sprintf("Compose a full outfit from the %d garment(s) shown above on a suitable model.\n", itemCount))
	}
	b.WriteString("Scene: ")
	b.WriteString(strings.TrimSpace(scene))
	b.WriteString("\nKeep garment shapes, colors and textures faithful to the inputs. Natural lighting, no artifacts. Generate exactly one image.")
	return b.String()
}

// buildEditPrompt frames an in-place edit of the current result.
func buildEditPrompt(instruction string) string {
	var b strings.Builder
	b.WriteString("Edit the provided image. ")
	b.WriteString(strings.TrimSpace(instruction))
	b.WriteString("\nPreserve everything not covered by the instruction. Generate exactly one image.")
	return b.String()
}

// buildAnalysisPrompt asks for commentary about the produced artifact.
func buildAnalysisPrompt(scene, locale string) string {
	var b strings.Builder
	b.WriteString("Give brief styling commentary on this generated outfit photo: fit, color harmony, and how well it suits the scene")
	if scene = strings.TrimSpace(scene); scene != "" {
		b.WriteString(fmt.Sprintf(" %q", scene))
	}
	b.WriteString(".")
	if locale != "" && locale != "en" {
		b.WriteString(" Answer in the language with ISO code ")
		b.WriteString(locale)
		b.WriteString(".")
	}
	return b.String()
}
