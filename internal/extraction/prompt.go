package extraction

// spinePrompt instructs the vision model to read a single upright book
// spine and answer in the fixed six-field layout the parser understands.
const spinePrompt = `You are analyzing a photo of a single book spine. The image has been rotated so the spine is upright. Read the text on the spine and identify the book.

RULES FOR READING THE SPINE:
1. The TITLE is almost always the largest text on the spine. Use text size as the primary signal.
2. The AUTHOR is usually smaller text, often near the top or bottom of the spine. Publisher names and logos are NOT the author.
3. If two names appear, the personal name is the author and the other is likely the publisher.
4. Use the spine's visual style (colors, typography, imagery) as a genre hint in addition to the title itself.
5. Do NOT guess. If the text is too blurry, occluded, or ambiguous to read with confidence, say so in UNCERTAINTY_NOTES and include the phrase "Need Validation".

Respond with EXACTLY the following lines, nothing else:

TITLE: <the book title>
AUTHOR: <the author, or empty if not visible>
GENRE: [<primary genre>, <secondary genre>, <tertiary genre>]
SPINE_APPEARANCE: <short description of the spine's colors and design>
REASONING: <how you identified the title and author, referencing text size and placement>
UNCERTAINTY_NOTES: <anything you could not read confidently, or "None">

The GENRE line lists up to three genres, most likely first, inside square brackets. If you can only infer one genre, list just that one.`

// Prompt returns the spine-reading instruction prompt.
func Prompt() string {
	return spinePrompt
}
