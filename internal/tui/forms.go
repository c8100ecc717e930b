package tui

import (
	"context"
	"fmt"

	"github.com/rupeewave/teller/internal/errors"
	"github.com/rupeewave/teller/internal/gateway"
)

// Builders for the banking operation forms. Each binds field specs and
// validation rules to a single gateway call; the pipeline itself lives
// in operationForm.

func newCreateAccountForm(gw *gateway.Client) *operationForm {
	return newOperationForm(operationForm{
		id:          "create-account",
		title:       "Create New Account",
		description: "Register new account holder",
		fields: []fieldSpec{
			{key: "holder_name", title: "Holder Name", placeholder: "e.g., Asha Rao", validate: validateRequired("Holder name")},
			{key: "pin", title: "4-Digit PIN", password: true, validate: validatePIN},
			{key: "vpin", title: "Confirm PIN", password: true, validate: validatePIN},
			{key: "mobileno", title: "Mobile Number", placeholder: "10 digits", validate: validateMobile},
			{key: "gmail", title: "Email", placeholder: "name@example.com", validate: validateEmail},
		},
		crossValidate: func(get func(string) string) error {
			if get("pin") != get("vpin") {
				return errors.NewValidationError(errors.ErrCodePinMismatch, "PIN and confirmation PIN do not match")
			}
			return nil
		},
		submit: func(ctx context.Context, get func(string) string) (string, error) {
			resp, err := gw.CreateAccount(ctx, gateway.CreateAccountRequest{
				HolderName: get("holder_name"),
				Pin:        get("pin"),
				Vpin:       get("vpin"),
				MobileNo:   get("mobileno"),
				Gmail:      get("gmail"),
			})
			if err != nil {
				return "", err
			}
			if resp.AccountNo != "" {
				return fmt.Sprintf("%s Account number: %s", resp.Message, resp.AccountNo), nil
			}
			return resp.Message, nil
		},
		clearOnSuccess: true,
	})
}

func newCreateUserForm(gw *gateway.Client) *operationForm {
	return newOperationForm(operationForm{
		id:          "create-user",
		title:       "Create User",
		description: "Create new system user",
		fields: []fieldSpec{
			{key: "username", title: "Username", validate: validateRequired("Username")},
			{key: "pas", title: "Password", password: true, validate: validateRequired("Password")},
			{key: "vps", title: "Confirm Password", password: true, validate: validateRequired("Confirmation password")},
			{key: "role", title: "Role", options: []string{"teller", "admin", "customer"}},
		},
		crossValidate: func(get func(string) string) error {
			if get("pas") != get("vps") {
				return errors.NewValidationError(errors.ErrCodeValidation, "Passwords do not match.")
			}
			return nil
		},
		submit: func(ctx context.Context, get func(string) string) (string, error) {
			resp, err := gw.CreateUser(ctx, gateway.CreateUserRequest{
				Username: get("username"),
				Pas:      get("pas"),
				Vps:      get("vps"),
				Role:     get("role"),
			})
			if err != nil {
				return "", err
			}
			if resp.Message == "" {
				return "User created.", nil
			}
			return resp.Message, nil
		},
		clearOnSuccess: true,
	})
}

// newTransactionForm covers deposit and withdraw, which share a shape
func newTransactionForm(gw *gateway.Client, kind ViewType) *operationForm {
	id, title, description := "deposit", "Deposit Money", "Add funds to account"
	if kind == ViewWithdraw {
		id, title, description = "withdraw", "Withdraw Money", "Withdraw funds from account"
	}

	return newOperationForm(operationForm{
		id:          id,
		title:       title,
		description: description,
		fields: []fieldSpec{
			{key: "acc_no", title: "Account Number", placeholder: "e.g., AC1001", validate: validateRequired("Account number")},
			{key: "pin", title: "4-Digit PIN", password: true, validate: validatePIN},
			{key: "amount", title: "Amount (₹)", placeholder: "0", validate: validateAmount},
		},
		submit: func(ctx context.Context, get func(string) string) (string, error) {
			req := gateway.TransactionRequest{
				AccNo:  get("acc_no"),
				Pin:    get("pin"),
				Amount: amountValue(get("amount")),
			}
			var resp *gateway.MessageResponse
			var err error
			if kind == ViewWithdraw {
				resp, err = gw.Withdraw(ctx, req)
			} else {
				resp, err = gw.Deposit(ctx, req)
			}
			if err != nil {
				return "", err
			}
			return resp.Message, nil
		},
		clearOnSuccess: true,
	})
}

func newTransferForm(gw *gateway.Client) *operationForm {
	return newOperationForm(operationForm{
		id:          "transfer",
		title:       "Transfer Money",
		description: "Transfer funds between accounts",
		fields: []fieldSpec{
			{key: "acc_no", title: "From Account Number", placeholder: "e.g., AC1001", validate: validateRequired("Source account")},
			{key: "pin", title: "4-Digit PIN", password: true, validate: validatePIN},
			{key: "rec_acc_no", title: "To Account Number", placeholder: "e.g., AC1002", validate: validateRequired("Destination account")},
			{key: "amount", title: "Amount (₹)", placeholder: "0", validate: validateAmount},
		},
		// The summary is for user confirmation only; the backend alone
		// decides whether either account exists.
		summary: func(get func(string) string) string {
			from, to, amount := get("acc_no"), get("rec_acc_no"), get("amount")
			if from == "" || to == "" || amount == "" {
				return ""
			}
			return fmt.Sprintf("Transfer Summary\nFrom: %s\nTo: %s\nAmount: ₹%s", from, to, amount)
		},
		submit: func(ctx context.Context, get func(string) string) (string, error) {
			resp, err := gw.Transfer(ctx, gateway.TransferRequest{
				AccNo:    get("acc_no"),
				Pin:      get("pin"),
				RecAccNo: get("rec_acc_no"),
				Amount:   amountValue(get("amount")),
			})
			if err != nil {
				return "", err
			}
			return resp.Message, nil
		},
		clearOnSuccess: true,
	})
}

func newEnquiryForm(gw *gateway.Client) *operationForm {
	return newOperationForm(operationForm{
		id:          "enquiry",
		title:       "Balance Enquiry",
		description: "Check account balance",
		fields: []fieldSpec{
			{key: "acc_no", title: "Account Number", placeholder: "e.g., AC1001", validate: validateRequired("Account number")},
			{key: "pin", title: "4-Digit PIN", password: true, validate: validatePIN},
		},
		submit: func(ctx context.Context, get func(string) string) (string, error) {
			resp, err := gw.Enquiry(ctx, gateway.EnquiryRequest{
				AccNo: get("acc_no"),
				Pin:   get("pin"),
			})
			if err != nil {
				return "", err
			}
			return resp.Message, nil
		},
		// The query inputs stay put so the balance can be re-checked.
		clearOnSuccess: false,
	})
}

func newChangePinForm(gw *gateway.Client) *operationForm {
	return newOperationForm(operationForm{
		id:          "changepin",
		title:       "Change PIN",
		description: "Update your account PIN for security",
		fields: []fieldSpec{
			{key: "acc_no", title: "Account Number", placeholder: "e.g., AC1001", validate: validateRequired("Account number")},
			{key: "pin", title: "Current PIN", password: true, validate: validatePIN},
			{key: "newpin", title: "New PIN", password: true, validate: validatePIN},
			{key: "vnewpin", title: "Confirm New PIN", password: true, validate: validatePIN},
		},
		// Mismatch is checked before sameness; the order is observable
		// when both apply.
		crossValidate: func(get func(string) string) error {
			if get("newpin") != get("vnewpin") {
				return errors.NewValidationError(errors.ErrCodePinMismatch, "New PIN and confirmation PIN do not match")
			}
			if get("newpin") == get("pin") {
				return errors.NewValidationError(errors.ErrCodePinUnchanged, "New PIN cannot be the same as the old PIN")
			}
			return nil
		},
		submit: func(ctx context.Context, get func(string) string) (string, error) {
			resp, err := gw.ChangePin(ctx, gateway.ChangePinRequest{
				AccNo:   get("acc_no"),
				Pin:     get("pin"),
				NewPin:  get("newpin"),
				VNewPin: get("vnewpin"),
			})
			if err != nil {
				return "", err
			}
			return resp.Message, nil
		},
		clearOnSuccess: true,
	})
}

func newUpdateMobileForm(gw *gateway.Client) *operationForm {
	return newOperationForm(operationForm{
		id:          "update-mobile",
		title:       "Update Mobile Number",
		fields: []fieldSpec{
			{key: "acc_no", title: "Account Number", placeholder: "e.g., AC1001", validate: validateRequired("Account number")},
			{key: "pin", title: "4-Digit PIN", password: true, validate: validatePIN},
			{key: "omobile", title: "Current Mobile Number", placeholder: "10 digits", validate: validateMobile},
			{key: "nmobile", title: "New Mobile Number", placeholder: "10 digits", validate: validateMobile},
		},
		submit: func(ctx context.Context, get func(string) string) (string, error) {
			resp, err := gw.UpdateMobile(ctx, gateway.UpdateMobileRequest{
				AccNo:   get("acc_no"),
				Pin:     get("pin"),
				OMobile: get("omobile"),
				NMobile: get("nmobile"),
			})
			if err != nil {
				return "", err
			}
			return resp.Message, nil
		},
		clearOnSuccess: true,
	})
}

func newUpdateEmailForm(gw *gateway.Client) *operationForm {
	return newOperationForm(operationForm{
		id:          "update-email",
		title:       "Update Email Address",
		fields: []fieldSpec{
			{key: "acc_no", title: "Account Number", placeholder: "e.g., AC1001", validate: validateRequired("Account number")},
			{key: "pin", title: "4-Digit PIN", password: true, validate: validatePIN},
			{key: "oemail", title: "Current Email", placeholder: "old@example.com", validate: validateEmail},
			{key: "nemail", title: "New Email", placeholder: "new@example.com", validate: validateEmail},
		},
		submit: func(ctx context.Context, get func(string) string) (string, error) {
			resp, err := gw.UpdateEmail(ctx, gateway.UpdateEmailRequest{
				AccNo:  get("acc_no"),
				Pin:    get("pin"),
				OEmail: get("oemail"),
				NEmail: get("nemail"),
			})
			if err != nil {
				return "", err
			}
			return resp.Message, nil
		},
		clearOnSuccess: true,
	})
}
