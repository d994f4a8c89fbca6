package commands

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

// maxSuggestDistance bounds how far a typo may be from a known type and
// still be suggested.
const maxSuggestDistance = 3

// parseWebsiteType accepts a known website type (case-insensitive) and
// otherwise fails with the closest known type as a suggestion.
func parseWebsiteType(s string) (types.WebsiteType, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if wt := types.WebsiteType(in); wt.Known() {
		return wt, nil
	}

	if best, ok := suggestWebsiteType(in); ok {
		return "", types.ValidationError("unknown website type %q, did you mean %q?", s, best)
	}
	return "", types.ValidationError("unknown website type %q (valid: %s)", s, validTypes())
}

func suggestWebsiteType(in string) (types.WebsiteType, bool) {
	var best types.WebsiteType
	bestDist := -1
	for _, wt := range types.WebsiteTypes {
		d := levenshtein.ComputeDistance(in, string(wt))
		if bestDist < 0 || d < bestDist {
			best, bestDist = wt, d
		}
	}
	return best, bestDist >= 0 && bestDist <= maxSuggestDistance
}

func validTypes() string {
	names := make([]string, len(types.WebsiteTypes))
	for i, wt := range types.WebsiteTypes {
		names[i] = string(wt)
	}
	return strings.Join(names, ", ")
}

func typeUsage() string {
	return fmt.Sprintf("Website type (%s)", validTypes())
}
