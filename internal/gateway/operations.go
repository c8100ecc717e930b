package gateway

import (
	"context"
	"encoding/json"
	"net/url"
)

// Wire shapes follow the backend contract field for field. Every request
// that mutates account state carries the four-digit PIN; the backend is
// authoritative on all limits and existence checks.

// AuthStatus is the payload of a successful session probe or login
type AuthStatus struct {
	Role     string `json:"role"`
	UserName string `json:"user_name"`
}

// MessageResponse is the uniform success payload of most operations
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateUserRequest registers a staff or customer login (admin only)
type CreateUserRequest struct {
	Username string `json:"username"`
	Pas      string `json:"pas"`
	Vps      string `json:"vps"`
	Role     string `json:"role"`
}

// CreateAccountRequest opens a new account for a holder
type CreateAccountRequest struct {
	HolderName string `json:"holder_name"`
	Pin        string `json:"pin"`
	Vpin       string `json:"vpin"`
	MobileNo   string `json:"mobileno"`
	Gmail      string `json:"gmail"`
}

// CreateAccountResponse carries the newly assigned account number
type CreateAccountResponse struct {
	Message   string `json:"message"`
	AccountNo string `json:"account_no"`
}

// TransactionRequest covers deposit and withdraw
type TransactionRequest struct {
	AccNo  string `json:"acc_no"`
	Pin    string `json:"pin"`
	Amount int    `json:"amount"`
}

// TransferRequest moves funds between two accounts
type TransferRequest struct {
	AccNo    string `json:"acc_no"`
	Pin      string `json:"pin"`
	RecAccNo string `json:"rec_acc_no"`
	Amount   int    `json:"amount"`
}

// EnquiryRequest asks for the balance, which the backend embeds in the
// message text
type EnquiryRequest struct {
	AccNo string `json:"acc_no"`
	Pin   string `json:"pin"`
}

// ChangePinRequest rotates the account PIN
type ChangePinRequest struct {
	AccNo   string `json:"acc_no"`
	Pin     string `json:"pin"`
	NewPin  string `json:"newpin"`
	VNewPin string `json:"vnewpin"`
}

// UpdateMobileRequest replaces the registered mobile number
type UpdateMobileRequest struct {
	AccNo   string `json:"acc_no"`
	Pin     string `json:"pin"`
	OMobile string `json:"omobile"`
	NMobile string `json:"nmobile"`
}

// UpdateEmailRequest replaces the registered email address
type UpdateEmailRequest struct {
	AccNo  string `json:"acc_no"`
	Pin    string `json:"pin"`
	OEmail string `json:"oemail"`
	NEmail string `json:"nemail"`
}

// CheckSession probes the backend session. Any non-success outcome is
// the caller's signal to treat the session as unauthenticated; no 401
// classification fires here.
func (c *Client) CheckSession(ctx context.Context) (*AuthStatus, error) {
	var status AuthStatus
	if err := c.getBare(ctx, "/auth/check", "Session check failed", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Login authenticates with a form-encoded payload. The session cookie is
// set by the server and captured by the client's jar; nothing else is
// stored. Failure surfaces the backend's detail verbatim.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthStatus, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var status AuthStatus
	if err := c.postForm(ctx, "/auth/login", form, "Login failed", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Logout clears the server session. Callers treat it as best-effort.
func (c *Client) Logout(ctx context.Context) error {
	return c.postBare(ctx, "/auth/logout", "Logout failed", nil)
}

// CreateUser registers a new system user
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.doJSON(ctx, "POST", "/auth/create-user", req, "User creation failed", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateAccount opens a new account
func (c *Client) CreateAccount(ctx context.Context, req CreateAccountRequest) (*CreateAccountResponse, error) {
	var resp CreateAccountResponse
	if err := c.doJSON(ctx, "POST", "/account/create", req, "Account creation failed", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Deposit adds funds to an account
func (c *Client) Deposit(ctx context.Context, req TransactionRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.doJSON(ctx, "POST", "/transaction/deposit", req, "Deposit failed", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Withdraw removes funds from an account
func (c *Client) Withdraw(ctx context.Context, req TransactionRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.doJSON(ctx, "POST", "/transaction/withdraw", req, "Withdrawal failed", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transfer moves funds between accounts. The gateway never retries a
// failed mutating call.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.doJSON(ctx, "POST", "/transaction/transfer", req, "Transfer failed", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Enquiry fetches the balance message for an account
func (c *Client) Enquiry(ctx context.Context, req EnquiryRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.doJSON(ctx, "POST", "/account/enquiry", req, "Enquiry failed", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History fetches the raw transaction history payload. The body is
// returned undecoded because the backend's record shape is weak; the
// history package owns the tolerant parse.
func (c *Client) History(ctx context.Context, accNo, pin string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("pin", pin)

	var raw json.RawMessage
	if err := c.getQuery(ctx, "/history/"+url.PathEscape(accNo), params, "GET request failed", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ChangePin rotates the PIN for an account
func (c *Client) ChangePin(ctx context.Context, req ChangePinRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.doJSON(ctx, "PUT", "/account/change-pin", req, "PIN change failed", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateMobile replaces the account's mobile number
func (c *Client) UpdateMobile(ctx context.Context, req UpdateMobileRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.doJSON(ctx, "PUT", "/account/update-mobile", req, "Mobile update failed", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateEmail replaces the account's email address
func (c *Client) UpdateEmail(ctx context.Context, req UpdateEmailRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.doJSON(ctx, "PUT", "/account/update-email", req, "Email update failed", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
