package generation

import "github.com/utkarshverma439/SiteCraft-AI/pkg/types"

// Transition returns the status a project moves to when a generation of the
// given kind succeeds from status from.
//
//	draft                  --generate-->   generated
//	generated|regenerated  --generate-->   generated
//	generated|regenerated  --regenerate--> regenerated
//
// Regenerating a draft is rejected; nothing returns to draft.
func Transition(from types.Status, kind types.GenerationKind) (types.Status, error) {
	if !from.Valid() {
		return "", types.GenerationError("unknown project status %q", from)
	}
	switch kind {
	case types.GenerationGenerate:
		return types.StatusGenerated, nil
	case types.GenerationRegenerate:
		if from == types.StatusDraft {
			return "", types.GenerationError("No existing code to modify. Generate website first.")
		}
		return types.StatusRegenerated, nil
	default:
		return "", types.GenerationError("unknown generation kind %q", kind)
	}
}

