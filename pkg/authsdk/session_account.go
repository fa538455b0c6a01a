package authsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// UserInfo returns the name of the signed in user.
func (s *Session) UserInfo(ctx context.Context) (*UserInfo, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, AccountPath+"/UserInfo", nil)
	if err != nil {
		return nil, err
	}

	var info UserInfo
	if err := decodeJSON(resp, &info, http.StatusOK); err != nil {
		return nil, err
	}

	return &info, nil
}

// ManageInfo returns the logins linked to the user and the providers that
// could still be linked.
func (s *Session) ManageInfo(ctx context.Context, returnURL string, generateState bool) (*ManageInfo, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, AccountPath+"/ManageInfo?"+manageQuery(returnURL, generateState), nil)
	if err != nil {
		return nil, err
	}

	var info ManageInfo
	if err := decodeJSON(resp, &info, http.StatusOK); err != nil {
		return nil, err
	}

	return &info, nil
}

func (s *Session) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return s.post(ctx, "/ChangePassword", req)
}

// SetPassword adds a local password to a user that only has external logins.
func (s *Session) SetPassword(ctx context.Context, req SetPasswordRequest) error {
	return s.post(ctx, "/SetPassword", req)
}

// AddExternalLogin links the external login carried by an external bearer
// token to the signed in user.
func (s *Session) AddExternalLogin(ctx context.Context, externalAccessToken string) error {
	return s.post(ctx, "/AddExternalLogin", AddExternalLoginRequest{ExternalAccessToken: externalAccessToken})
}

func (s *Session) RemoveLogin(ctx context.Context, req RemoveLoginRequest) error {
	return s.post(ctx, "/RemoveLogin", req)
}

// ExternalLoginComplete must be called with an external bearer token. It
// returns a local token when the external login is linked to a user, and a
// PendingRegistration otherwise.
func (s *Session) ExternalLoginComplete(ctx context.Context) (*TokenResponse, *PendingRegistration, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, AccountPath+"/ExternalLoginComplete", nil)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, parseErrorResponse(resp, body)
	}

	// The two payloads share userName; only a token carries access_token.
	var peek struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &peek); err != nil {
		return nil, nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if peek.AccessToken != "" {
		var tokenResp TokenResponse
		if err := json.Unmarshal(body, &tokenResp); err != nil {
			return nil, nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return &tokenResp, nil, nil
	}

	var pending PendingRegistration
	if err := json.Unmarshal(body, &pending); err != nil {
		return nil, nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return nil, &pending, nil
}

// RegisterExternal creates a user for the external login carried by the
// session's external bearer token and returns a local token for it.
func (s *Session) RegisterExternal(ctx context.Context, userName string) (*TokenResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, AccountPath+"/RegisterExternal", RegisterExternalRequest{UserName: userName})
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}

	return &tokenResp, nil
}

func (s *Session) post(ctx context.Context, path string, body any) error {
	resp, err := s.doJSON(ctx, http.MethodPost, AccountPath+path, body)
	if err != nil {
		return err
	}
	return checkStatusOK(resp)
}
