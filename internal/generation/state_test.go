package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from    types.Status
		kind    types.GenerationKind
		want    types.Status
		wantErr bool
	}{
		{types.StatusDraft, types.GenerationGenerate, types.StatusGenerated, false},
		{types.StatusGenerated, types.GenerationGenerate, types.StatusGenerated, false},
		{types.StatusRegenerated, types.GenerationGenerate, types.StatusGenerated, false},
		{types.StatusGenerated, types.GenerationRegenerate, types.StatusRegenerated, false},
		{types.StatusRegenerated, types.GenerationRegenerate, types.StatusRegenerated, false},
		{types.StatusDraft, types.GenerationRegenerate, "", true},
		{"archived", types.GenerationGenerate, "", true},
		{types.StatusDraft, "publish", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.kind), func(t *testing.T) {
			got, err := Transition(tt.from, tt.kind)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, types.IsKind(err, types.KindGeneration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, types.StatusDraft, got)
		})
	}
}
