package dresscode

// Result is the outcome of a compliance check for one frame.
type Result struct {
	IsCompliant   bool     `json:"is_compliant"`
	MissingItems  []string `json:"missing_items"`
	DetectedItems []string `json:"detected_items"`
	Gender        Gender   `json:"gender"`
}

// Indicator sets used for gender inference.
var (
	femaleIndicators = map[string]bool{"blouse": true, "skirt": true, "doll_shoes": true}
	maleIndicators   = map[string]bool{"polo_shirt": true, "pants": true, "shoes": true}
)

// ClassifyGender infers gender from the detected clothing classes.
// Whichever indicator set has the strictly larger overlap wins; ties,
// including an empty detection set, resolve to Male.
func ClassifyGender(classes []string) Gender {
	seen := make(map[string]bool, len(classes))
	for _, c := range classes {
		seen[c] = true
	}

	var femaleScore, maleScore int
	for c := range seen {
		if femaleIndicators[c] {
			femaleScore++
		}
		if maleIndicators[c] {
			maleScore++
		}
	}

	if femaleScore > maleScore {
		return Female
	}
	return Male
}

// CheckCompliance checks the detected classes against the required
// items for the gender. For Female subjects doll_shoes satisfies the
// shoes requirement (footwear equivalence) without becoming a
// requirement itself. MissingItems preserves the canonical
// required-list order regardless of detection order.
func CheckCompliance(classes []string, g Gender) Result {
	detected := make(map[string]bool, len(classes))
	for _, c := range classes {
		detected[c] = true
	}

	if g == Female && detected["doll_shoes"] {
		detected["shoes"] = true
	}

	missing := []string{}
	for _, item := range requirements[g] {
		if !detected[item] {
			missing = append(missing, DisplayName(item))
		}
	}

	display := make([]string, len(classes))
	for i, c := range classes {
		display[i] = DisplayName(c)
	}

	return Result{
		IsCompliant:   len(missing) == 0,
		MissingItems:  missing,
		DetectedItems: display,
		Gender:        g,
	}
}
