package mailer

import (
	"fmt"
	"net/url"
)

// VerificationEmail builds the subject and body of the email-verification
// message. The link embeds both the token and the address so the landing page
// can verify without extra input.
func VerificationEmail(baseURL, email, token string) (subject, htmlBody string) {
	link := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s&email=%s",
		baseURL, url.QueryEscape(token), url.QueryEscape(email))

	subject = "Verify your email address"
	htmlBody = fmt.Sprintf(`
		<h1>Welcome to RecipeBox!</h1>
		<p>Please click the link below to verify your email address:</p>
		<a href="%s">Verify Email</a>
		<p>The link is valid for 24 hours.</p>
	`, link)
	return subject, htmlBody
}

// PasswordResetEmail builds the subject and body of the password-reset
// message.
func PasswordResetEmail(baseURL, email, token string) (subject, htmlBody string) {
	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		baseURL, url.QueryEscape(token), url.QueryEscape(email))

	subject = "Reset your password"
	htmlBody = fmt.Sprintf(`
		<h1>Password reset requested</h1>
		<p>Click the link below to choose a new password. If you did not
		request a reset, you can ignore this message.</p>
		<a href="%s">Reset Password</a>
		<p>The link is valid for 1 hour.</p>
	`, link)
	return subject, htmlBody
}

// PasswordChangedEmail builds the notice sent after a successful reset.
func PasswordChangedEmail() (subject, htmlBody string) {
	subject = "Your password was changed"
	htmlBody = `
		<h1>Your password was changed</h1>
		<p>If this was not you, contact support immediately.</p>
	`
	return subject, htmlBody
}
