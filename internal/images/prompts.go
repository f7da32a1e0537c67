package images

import "fmt"

// groundingPrompt asks the text model for a garment description that can be
// fed back into the fusion prompt. The model tends to wrap answers in
// conversation, hence the explicit "output only" instruction.
const groundingPrompt = "Analyze this clothing image. Describe the garment in precise technical detail " +
	"including fabric texture (e.g., denim, silk), neck style, sleeve length, fit, and pattern. " +
	"Output ONLY the description."

// fallbackOutfitDescription stands in when grounding degrades. It keeps the
// fusion prompt coherent by pointing the model at the second reference image.
const fallbackOutfitDescription = "The clothing item shown in the second image"

// buildFusionPrompt embeds the grounded garment description so the image
// model does not have to reconcile two competing reference images on its own.
func buildFusionPrompt(outfitDescription string) string {
	return fmt.Sprintf(`Create a photorealistic image of the person from the first image wearing the outfit from the second image.

INSTRUCTIONS:
1. **Subject Identity:** The face, body shape, skin tone, and hair of the person in the first image must remain 100%% unchanged.
2. **Outfit Application:** Dress the subject in the garment described as: %q.
3. **Fit & Physics:** The clothing must hang naturally on the subject's pose.
4. **Lighting:** Match the lighting of the original person image.`, outfitDescription)
}
