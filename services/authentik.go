package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clipcraft/viral-production-backend/config"
)

const (
	appPasswordTTL     = 60 * time.Second // expiry phía provider, lưới an toàn độc lập với cleanup
	invalidCredentials = "Invalid email or password"
)

// ErrInvalidCredentials là lỗi duy nhất trả ra từ mọi bước đăng nhập thất bại,
// không phân biệt sai email, sai mật khẩu hay tài khoản không tồn tại.
func ErrInvalidCredentials() *WorkflowError {
	return NewWorkflowError(ErrKindNotAuthenticated, invalidCredentials)
}

// ProviderSession là token do Authentik phát hành sau khi exchange app password.
// Access token của provider chỉ dùng để gọi userinfo rồi bỏ; refresh token
// trả về cho client để làm mới phiên.
type ProviderSession struct {
	AccessToken  string
	RefreshToken string
	Email        string
	Name         string
}

// AuthentikClient nói chuyện với Authentik: chạy flow đăng nhập, cấp/thu hồi
// app password tạm, exchange OAuth và gọi các API quản trị user.
type AuthentikClient struct {
	baseURL      string
	apiToken     string // admin API token, cấu hình ngoài band
	clientID     string
	clientSecret string
	flowSlug     string
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewAuthentikClient đọc cấu hình từ env. Khi AUTHENTIK_URL rỗng, hệ thống
// chạy chế độ local fallback (bcrypt trên bảng profiles) — xem auth controller.
func NewAuthentikClient() *AuthentikClient {
	flowSlug := os.Getenv("AUTHENTIK_FLOW_SLUG")
	if flowSlug == "" {
		flowSlug = "default-authentication-flow"
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthentikClient{
		baseURL:      strings.TrimRight(os.Getenv("AUTHENTIK_URL"), "/"),
		apiToken:     os.Getenv("AUTHENTIK_API_TOKEN"),
		clientID:     os.Getenv("AUTHENTIK_CLIENT_ID"),
		clientSecret: os.Getenv("AUTHENTIK_CLIENT_SECRET"),
		flowSlug:     flowSlug,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		logger:       logger,
	}
}

// Enabled: có cấu hình Authentik hay không
func (c *AuthentikClient) Enabled() bool {
	return c.baseURL != ""
}

// ValidateCredentials chạy flow executor qua máy trạng thái tường minh:
// GET khởi tạo -> POST uid -> POST password -> response terminal.
// Cookie của flow được giữ trong jar riêng cho từng lần chạy.
func (c *AuthentikClient) ValidateCredentials(ctx context.Context, email, password string) error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return WrapUpstream(err, "Failed to initialize login session")
	}
	client := &http.Client{Jar: jar, Timeout: 15 * time.Second}

	executorURL := fmt.Sprintf("%s/api/v3/flows/executor/%s/?query=", c.baseURL, c.flowSlug)

	state := FlowStarted

	resp, err := c.flowStep(ctx, client, http.MethodGet, executorURL, nil)
	if err != nil {
		return WrapUpstream(err, "Identity provider is unreachable")
	}
	state = advanceFlow(state, *resp)
	if state == FlowFailed {
		return ErrInvalidCredentials()
	}

	resp, err = c.flowStep(ctx, client, http.MethodPost, executorURL, map[string]any{
		"component": componentIdentification,
		"uid_field": email,
	})
	if err != nil {
		return WrapUpstream(err, "Identity provider is unreachable")
	}
	state = advanceFlow(state, *resp)
	if state == FlowFailed {
		return ErrInvalidCredentials()
	}

	resp, err = c.flowStep(ctx, client, http.MethodPost, executorURL, map[string]any{
		"component": componentPassword,
		"password":  password,
	})
	if err != nil {
		return WrapUpstream(err, "Identity provider is unreachable")
	}
	state = advanceFlow(state, *resp)
	if state != FlowSucceeded {
		return ErrInvalidCredentials()
	}
	return nil
}

func (c *AuthentikClient) flowStep(ctx context.Context, client *http.Client, method, stepURL string, body map[string]any) (*flowResponse, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, stepURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var fr flowResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, err
	}
	return &fr, nil
}

// Login xác thực qua flow, cấp app password 60s, exchange lấy token OAuth,
// đọc userinfo rồi xóa app password (best-effort).
func (c *AuthentikClient) Login(ctx context.Context, email, password string) (*ProviderSession, error) {
	if err := c.ValidateCredentials(ctx, email, password); err != nil {
		return nil, err
	}

	userPK, err := c.findUserPK(ctx, email)
	if err != nil {
		return nil, err
	}

	identifier := "login-" + uuid.NewString()
	appPassword, err := c.createAppPassword(ctx, userPK, identifier)
	if err != nil {
		return nil, err
	}
	// xóa credential tạm dù exchange thành công hay không; lỗi dọn dẹp
	// không bao giờ chặn đăng nhập (provider tự hết hạn sau 60s)
	defer c.deleteAppPassword(identifier)

	session, err := c.exchangeAppPassword(ctx, email, appPassword)
	if err != nil {
		return nil, err
	}

	info, err := c.userinfo(ctx, session.AccessToken)
	if err != nil {
		return nil, err
	}
	session.Email = info.Email
	session.Name = info.Name
	return session, nil
}

// Refresh làm mới access token của provider bằng refresh token
func (c *AuthentikClient) Refresh(ctx context.Context, refreshToken string) (*ProviderSession, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.postForm(ctx, c.baseURL+"/application/o/token/", form, &tokens); err != nil {
		return nil, NewWorkflowError(ErrKindNotAuthenticated, "Refresh token is invalid or expired")
	}

	session := &ProviderSession{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}
	info, err := c.userinfo(ctx, session.AccessToken)
	if err != nil {
		return nil, err
	}
	session.Email = info.Email
	session.Name = info.Name
	return session, nil
}

type userinfoResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (c *AuthentikClient) userinfo(ctx context.Context, accessToken string) (*userinfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/application/o/userinfo/", nil)
	if err != nil {
		return nil, WrapUpstream(err, "Failed to build userinfo request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, WrapUpstream(err, "Identity provider is unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, WrapUpstream(fmt.Errorf("userinfo status %d: %s", resp.StatusCode, string(body)), "Failed to load user info")
	}

	var info userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, WrapUpstream(err, "Failed to decode user info")
	}
	return &info, nil
}

func (c *AuthentikClient) findUserPK(ctx context.Context, email string) (int, error) {
	endpoint := fmt.Sprintf("%s/api/v3/core/users/?email=%s", c.baseURL, url.QueryEscape(email))
	var result struct {
		Results []struct {
			PK int `json:"pk"`
		} `json:"results"`
	}
	if err := c.adminGet(ctx, endpoint, &result); err != nil {
		return 0, err
	}
	if len(result.Results) == 0 {
		// user qua được flow nhưng không tìm thấy qua API: vẫn trả lỗi chung
		return 0, ErrInvalidCredentials()
	}
	return result.Results[0].PK, nil
}

func (c *AuthentikClient) createAppPassword(ctx context.Context, userPK int, identifier string) (string, error) {
	payload := map[string]any{
		"identifier": identifier,
		"user":       userPK,
		"intent":     "app_password",
		"expiring":   true,
		"expires":    time.Now().Add(appPasswordTTL).Format(time.RFC3339),
	}
	if err := c.adminPost(ctx, c.baseURL+"/api/v3/core/tokens/", payload, nil); err != nil {
		return "", err
	}

	var key struct {
		Key string `json:"key"`
	}
	endpoint := fmt.Sprintf("%s/api/v3/core/tokens/%s/view_key/", c.baseURL, identifier)
	if err := c.adminGet(ctx, endpoint, &key); err != nil {
		return "", err
	}
	return key.Key, nil
}

func (c *AuthentikClient) deleteAppPassword(identifier string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/v3/core/tokens/%s/", c.baseURL, identifier)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("Failed to clean up app password", zap.String("identifier", identifier), zap.Error(err))
		}
		return
	}
	resp.Body.Close()
}

func (c *AuthentikClient) exchangeAppPassword(ctx context.Context, email, appPassword string) (*ProviderSession, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("username", email)
	form.Set("password", appPassword)
	form.Set("scope", "openid email profile offline_access")

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.postForm(ctx, c.baseURL+"/application/o/token/", form, &tokens); err != nil {
		return nil, err
	}
	return &ProviderSession{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

// ===== API quản trị (tạo/xóa user, set mật khẩu) =====

// CreateUser tạo user bên Authentik, trả về PK
func (c *AuthentikClient) CreateUser(ctx context.Context, email, name string) (int, error) {
	payload := map[string]any{
		"username":  email,
		"email":     email,
		"name":      name,
		"is_active": true,
	}
	var created struct {
		PK int `json:"pk"`
	}
	if err := c.adminPost(ctx, c.baseURL+"/api/v3/core/users/", payload, &created); err != nil {
		return 0, err
	}
	return created.PK, nil
}

// SetPassword đổi mật khẩu user qua endpoint quản trị
func (c *AuthentikClient) SetPassword(ctx context.Context, email, newPassword string) error {
	pk, err := c.findUserPK(ctx, email)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/api/v3/core/users/%d/set_password/", c.baseURL, pk)
	return c.adminPost(ctx, endpoint, map[string]any{"password": newPassword}, nil)
}

// DeleteUser xóa user bên Authentik theo email (best-effort với user không tồn tại)
func (c *AuthentikClient) DeleteUser(ctx context.Context, email string) error {
	pk, err := c.findUserPK(ctx, email)
	if err != nil {
		if we, ok := AsWorkflowError(err); ok && we.Kind == ErrKindNotAuthenticated {
			return nil // không còn bên provider thì coi như đã xóa
		}
		return err
	}
	endpoint := fmt.Sprintf("%s/api/v3/core/users/%d/", c.baseURL, pk)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return WrapUpstream(err, "Failed to build delete request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return WrapUpstream(err, "Identity provider is unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return WrapUpstream(fmt.Errorf("delete user status %d", resp.StatusCode), "Failed to delete provider user")
	}
	return nil
}

func (c *AuthentikClient) adminGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return WrapUpstream(err, "Failed to build provider request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return WrapUpstream(err, "Identity provider is unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return WrapUpstream(fmt.Errorf("provider status %d: %s", resp.StatusCode, string(body)), "Identity provider request failed")
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *AuthentikClient) adminPost(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return WrapUpstream(err, "Failed to encode provider request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return WrapUpstream(err, "Failed to build provider request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return WrapUpstream(err, "Identity provider is unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return WrapUpstream(fmt.Errorf("provider status %d: %s", resp.StatusCode, string(respBody)), "Identity provider request failed")
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *AuthentikClient) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return WrapUpstream(err, "Failed to build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return WrapUpstream(err, "Identity provider is unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return WrapUpstream(fmt.Errorf("token status %d: %s", resp.StatusCode, string(body)), "Token exchange failed")
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
