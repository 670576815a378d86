package services

import "encoding/json"

// Trạng thái của một lần chạy flow executor bên Authentik.
// Trạng thái tường minh thay vì suy ra từ shape của response.
type FlowState int

const (
	FlowStarted FlowState = iota
	FlowIdentitySubmitted
	FlowPasswordSubmitted
	FlowSucceeded
	FlowFailed
)

func (s FlowState) String() string {
	switch s {
	case FlowStarted:
		return "started"
	case FlowIdentitySubmitted:
		return "identity_submitted"
	case FlowPasswordSubmitted:
		return "password_submitted"
	case FlowSucceeded:
		return "succeeded"
	}
	return "failed"
}

// Các component Authentik trả về ở từng chặng của flow
const (
	componentIdentification = "ak-stage-identification"
	componentPassword       = "ak-stage-password"
	componentRedirect       = "xak-flow-redirect"
	componentAccessDenied   = "ak-stage-access-denied"
)

// flowResponse là phần thân JSON mà flow executor trả về sau mỗi bước
type flowResponse struct {
	Component      string                     `json:"component"`
	Type           string                     `json:"type"`
	To             string                     `json:"to"`
	ResponseErrors map[string]json.RawMessage `json:"response_errors"`
}

func (r flowResponse) hasErrors() bool {
	return len(r.ResponseErrors) > 0
}

// advanceFlow chuyển trạng thái flow dựa trên response của bước vừa gửi.
// Mọi component lạ hay response_errors ở bất kỳ bước nào đều đưa về FlowFailed;
// caller không bao giờ lộ ra bước nào hỏng (chống dò tài khoản).
func advanceFlow(state FlowState, resp flowResponse) FlowState {
	if resp.hasErrors() {
		return FlowFailed
	}

	switch state {
	case FlowStarted:
		// sau GET khởi tạo, flow phải đang ở stage nhập định danh
		if resp.Component == componentIdentification {
			return FlowIdentitySubmitted
		}
	case FlowIdentitySubmitted:
		// sau khi POST uid, flow phải chuyển sang stage mật khẩu
		if resp.Component == componentPassword {
			return FlowPasswordSubmitted
		}
	case FlowPasswordSubmitted:
		// bước cuối: redirect là thành công, mọi thứ khác là thất bại
		if resp.Component == componentRedirect || resp.Type == "redirect" {
			return FlowSucceeded
		}
	}
	return FlowFailed
}
