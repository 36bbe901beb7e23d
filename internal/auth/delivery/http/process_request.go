package http

import (
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

const (
	grantAuthorizationCode = "authorization_code"
	grantRefreshToken      = "refresh_token"
)

type authorizeReq struct {
	State               string `form:"state"`
	CodeChallenge       string `form:"code_challenge"`
	CodeChallengeMethod string `form:"code_challenge_method"`
	RedirectURI         string `form:"redirect_uri"`
}

func (r authorizeReq) validate() error {
	if r.State == "" {
		return errors.New("state is required")
	}
	if r.CodeChallengeMethod != "" && r.CodeChallengeMethod != "S256" {
		return errors.New("only S256 code challenges are supported")
	}
	return nil
}

func (r authorizeReq) options() []oauth2.AuthCodeOption {
	var opts []oauth2.AuthCodeOption
	if r.CodeChallenge != "" {
		opts = append(opts,
			oauth2.SetAuthURLParam("code_challenge", r.CodeChallenge),
			oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		)
	}
	if r.RedirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", r.RedirectURI))
	}
	return opts
}

type tokenReq struct {
	GrantType    string `form:"grant_type"`
	Code         string `form:"code"`
	CodeVerifier string `form:"code_verifier"`
	RedirectURI  string `form:"redirect_uri"`
	RefreshToken string `form:"refresh_token"`
}

// validate returns OAuth error codes as messages.
func (r tokenReq) validate() error {
	switch r.GrantType {
	case grantAuthorizationCode:
		if r.Code == "" {
			return errors.New("invalid_request")
		}
	case grantRefreshToken:
		if r.RefreshToken == "" {
			return errors.New("invalid_request")
		}
	default:
		return errors.New("unsupported_grant_type")
	}
	return nil
}

func (r tokenReq) exchangeOptions() []oauth2.AuthCodeOption {
	var opts []oauth2.AuthCodeOption
	if r.CodeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(r.CodeVerifier))
	}
	if r.RedirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", r.RedirectURI))
	}
	return opts
}

func (h *handler) processAuthorizeReq(c *gin.Context) (authorizeReq, error) {
	var req authorizeReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

func (h *handler) processTokenReq(c *gin.Context) (tokenReq, error) {
	var req tokenReq
	if err := c.ShouldBind(&req); err != nil {
		return req, errors.New("invalid_request")
	}
	return req, req.validate()
}
