package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceFlowHappyPath(t *testing.T) {
	state := FlowStarted

	state = advanceFlow(state, flowResponse{Component: componentIdentification})
	assert.Equal(t, FlowIdentitySubmitted, state)

	state = advanceFlow(state, flowResponse{Component: componentPassword})
	assert.Equal(t, FlowPasswordSubmitted, state)

	state = advanceFlow(state, flowResponse{Component: componentRedirect, To: "/"})
	assert.Equal(t, FlowSucceeded, state)
}

func TestAdvanceFlowRedirectType(t *testing.T) {
	// một số bản Authentik trả type=redirect thay vì component riêng
	state := advanceFlow(FlowPasswordSubmitted, flowResponse{Type: "redirect", To: "/app"})
	assert.Equal(t, FlowSucceeded, state)
}

func TestAdvanceFlowFailures(t *testing.T) {
	tests := []struct {
		name  string
		state FlowState
		resp  flowResponse
	}{
		{
			name:  "unknown identity keeps flow at identification",
			state: FlowIdentitySubmitted,
			resp:  flowResponse{Component: componentIdentification},
		},
		{
			name:  "wrong password returns password stage with errors",
			state: FlowPasswordSubmitted,
			resp: flowResponse{
				Component:      componentPassword,
				ResponseErrors: map[string]json.RawMessage{"password": json.RawMessage(`[{"string":"Invalid password"}]`)},
			},
		},
		{
			name:  "access denied stage",
			state: FlowPasswordSubmitted,
			resp:  flowResponse{Component: componentAccessDenied},
		},
		{
			name:  "unexpected component at start",
			state: FlowStarted,
			resp:  flowResponse{Component: "ak-stage-consent"},
		},
		{
			name:  "errors at first step",
			state: FlowStarted,
			resp: flowResponse{
				Component:      componentIdentification,
				ResponseErrors: map[string]json.RawMessage{"non_field_errors": json.RawMessage(`[]`)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, FlowFailed, advanceFlow(tt.state, tt.resp))
		})
	}
}

// Mọi nhánh thất bại đều hội tụ về cùng một trạng thái: caller không thể
// phân biệt sai email với sai mật khẩu từ kết quả flow.
func TestAdvanceFlowFailureIsUniform(t *testing.T) {
	wrongIdentity := advanceFlow(FlowIdentitySubmitted, flowResponse{Component: componentIdentification})
	wrongPassword := advanceFlow(FlowPasswordSubmitted, flowResponse{
		Component:      componentPassword,
		ResponseErrors: map[string]json.RawMessage{"password": json.RawMessage(`[]`)},
	})
	assert.Equal(t, wrongIdentity, wrongPassword)
	assert.Equal(t, "failed", wrongIdentity.String())
}
