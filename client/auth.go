package client

import (
	"context"

	"github.com/apex/log"

	"pipetrack/api"
	"pipetrack/common"
	"pipetrack/models"
)

// Login authenticates and returns the server-side profile snapshot. The
// returned profile carries account_status; deciding what pending/rejected
// accounts may do is session policy, not transport.
func (c *Client) Login(ctx context.Context, email, password string) (*models.SessionProfile, error) {
	if email == "" || password == "" {
		return nil, &common.ValidationError{Reason: "please enter both email and password"}
	}

	var resp api.LoginResponse
	if err := c.postJSON(ctx, api.LoginEndpoint, api.LoginArgs{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if err := serverChecked(resp.Success, resp.Message); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &common.ServerError{Message: "login succeeded without profile data"}
	}
	log.Infof("Logged in user %s", resp.Data.UserID)
	return resp.Data, nil
}

func (c *Client) Register(ctx context.Context, args api.RegisterArgs) error {
	if args.Fullname == "" || args.Email == "" || args.Password == "" {
		return &common.ValidationError{Reason: "please fill in all required fields"}
	}
	var resp api.StatusResponse
	if err := c.postJSON(ctx, api.RegisterEndpoint, args, &resp); err != nil {
		return err
	}
	return serverChecked(resp.Success, resp.Message)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return &common.ValidationError{Reason: "please enter your email"}
	}
	var resp api.StatusResponse
	if err := c.postJSON(ctx, api.ForgotPasswordEndpoint, api.ForgotPasswordArgs{Email: email}, &resp); err != nil {
		return err
	}
	return serverChecked(resp.Success, resp.Message)
}

func (c *Client) ChangePassword(ctx context.Context, userID, newPassword string) error {
	if newPassword == "" {
		return &common.ValidationError{Reason: "password must not be empty"}
	}
	var resp api.StatusResponse
	args := api.ChangePasswordArgs{UserID: userID, NewPassword: newPassword}
	if err := c.postJSON(ctx, api.ChangePasswordEndpoint, args, &resp); err != nil {
		return err
	}
	return serverChecked(resp.Success, resp.Message)
}

func (c *Client) UpdateProfile(ctx context.Context, args api.UpdateProfileArgs) error {
	var resp api.StatusResponse
	if err := c.postJSON(ctx, api.UpdateProfileEndpoint, args, &resp); err != nil {
		return err
	}
	return serverChecked(resp.Success, resp.Message)
}

// UploadAvatar sends the picked image as base64 JSON, matching the PHP
// endpoint's contract.
func (c *Client) UploadAvatar(ctx context.Context, userID, imageBase64 string) error {
	if imageBase64 == "" {
		return &common.ValidationError{Reason: "no image selected"}
	}
	var resp api.StatusResponse
	args := api.UploadAvatarArgs{UserID: userID, Image: imageBase64}
	if err := c.postJSON(ctx, api.UploadAvatarEndpoint, args, &resp); err != nil {
		return err
	}
	return serverChecked(resp.Success, resp.Message)
}
