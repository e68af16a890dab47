package renamesafe

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Request is one desired rename: find the file whose name contains Match
// and rename it using Replacement. Requests are immutable for the duration
// of a batch.
type Request struct {
	Match       string `json:"match"`
	Replacement string `json:"replacement"`
}

// Outcome classifies how a single request resolved against the snapshot.
type Outcome int

const (
	// OutcomeMatched means exactly one file matched and a mapping was produced.
	OutcomeMatched Outcome = iota
	// OutcomeUnmatched means no file matched; the request is dropped.
	OutcomeUnmatched
	// OutcomeAmbiguous means several files matched; the lexicographically
	// smallest was selected and the batch continues with a warning.
	OutcomeAmbiguous
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeUnmatched:
		return "unmatched"
	case OutcomeAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// Mapping is a resolved rename pair: Source exists in the snapshot, Target
// is the computed destination name. RequestIndex points back at the request
// that produced it.
type Mapping struct {
	Source       string
	Target       string
	RequestIndex int
}

// Resolution reports the outcome of one request, including the candidate
// set when the match was ambiguous.
type Resolution struct {
	Request      Request
	RequestIndex int
	Outcome      Outcome
	Selected     string
	Candidates   []string
}

// ResolveAll resolves every request against the snapshot. It is a pure
// function over the snapshot and never touches the filesystem. Unmatched
// and ambiguous requests produce a Resolution but only matched and
// ambiguous ones contribute a Mapping.
//
// When several files match, the lexicographically smallest filename wins:
// the snapshot is sorted and scanned in order, so the first candidate found
// is the smallest. This replaces the unspecified selection order of earlier
// implementations with a documented, deterministic rule.
func ResolveAll(requests []Request, snap *Snapshot) ([]Mapping, []Resolution) {
	mappings := make([]Mapping, 0, len(requests))
	resolutions := make([]Resolution, 0, len(requests))

	for i, req := range requests {
		var candidates []string
		for _, name := range snap.Names() {
			if strings.Contains(name, req.Match) {
				candidates = append(candidates, name)
			}
		}

		res := Resolution{Request: req, RequestIndex: i, Candidates: candidates}
		switch len(candidates) {
		case 0:
			res.Outcome = OutcomeUnmatched
		case 1:
			res.Outcome = OutcomeMatched
			res.Selected = candidates[0]
		default:
			res.Outcome = OutcomeAmbiguous
			res.Selected = candidates[0]
		}
		resolutions = append(resolutions, res)

		if res.Selected != "" {
			mappings = append(mappings, Mapping{
				Source:       res.Selected,
				Target:       buildTarget(res.Selected, req.Match, req.Replacement),
				RequestIndex: i,
			})
		}
	}

	return mappings, resolutions
}

// buildTarget computes the destination name for a matched source: the first
// occurrence of match is replaced by replacement, and the target keeps the
// source's extension unless the replacement carries a recognizable one.
func buildTarget(source, match, replacement string) string {
	srcExt := filepath.Ext(source)
	repExt := replacementExt(replacement)

	ext := srcExt
	if repExt != "" {
		ext = repExt
	}

	stem := strings.TrimSuffix(source, srcExt)
	if strings.Contains(stem, match) {
		repStem := strings.TrimSuffix(replacement, repExt)
		return strings.Replace(stem, match, repStem, 1) + ext
	}

	// The token spans the extension, so substitute over the full name and
	// restore the extension if the substitution consumed it.
	name := strings.Replace(source, match, replacement, 1)
	if repExt == "" && srcExt != "" && !strings.HasSuffix(name, srcExt) {
		name += srcExt
	}
	return name
}

// replacementExt returns the extension carried by a replacement token, or
// "" when the token's trailing ".xyz" does not look like a file extension.
// Recognizable means 1-5 alphanumeric characters containing at least one
// letter, so "showA.mp4" carries ".mp4" but "episode.2" carries nothing.
func replacementExt(replacement string) string {
	ext := filepath.Ext(replacement)
	if ext == "" || len(ext) > 6 {
		return ""
	}
	hasLetter := false
	for _, r := range ext[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return ""
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	if !hasLetter {
		return ""
	}
	return ext
}
