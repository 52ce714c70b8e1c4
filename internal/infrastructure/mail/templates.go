package mail

import (
	"fmt"

	"github.com/matcornic/hermes/v2"
)

const (
	verifyButtonColor = "#22BC66"
	resetButtonColor  = "#2281BC"
	outro             = "Need help, or have questions? Just reply to this email, we'd love to help."
)

// Composer renders the transactional emails.
type Composer struct {
	generator hermes.Hermes
}

func NewComposer(productName, productLink string) *Composer {
	return &Composer{
		generator: hermes.Hermes{
			Product: hermes.Product{
				Name: productName,
				Link: productLink,
			},
		},
	}
}

func (c *Composer) EmailVerification(username, verificationURL string) (Content, error) {
	return c.render(hermes.Email{
		Body: hermes.Body{
			Name:   username,
			Intros: []string{fmt.Sprintf("Welcome to %s! We're very excited to have you on board.", c.generator.Product.Name)},
			Actions: []hermes.Action{{
				Instructions: "To verify your email address, please click here:",
				Button: hermes.Button{
					Color: verifyButtonColor,
					Text:  "Verify your email",
					Link:  verificationURL,
				},
			}},
			Outros: []string{outro},
		},
	})
}

func (c *Composer) ForgotPassword(username, resetURL string) (Content, error) {
	return c.render(hermes.Email{
		Body: hermes.Body{
			Name:   username,
			Intros: []string{"You have requested to reset your password."},
			Actions: []hermes.Action{{
				Instructions: "To choose a new password, please click here:",
				Button: hermes.Button{
					Color: resetButtonColor,
					Text:  "Reset your password",
					Link:  resetURL,
				},
			}},
			Outros: []string{"If you did not request a password reset, no further action is required.", outro},
		},
	})
}

func (c *Composer) render(email hermes.Email) (Content, error) {
	html, err := c.generator.GenerateHTML(email)
	if err != nil {
		return Content{}, fmt.Errorf("rendering html email: %w", err)
	}

	text, err := c.generator.GeneratePlainText(email)
	if err != nil {
		return Content{}, fmt.Errorf("rendering text email: %w", err)
	}

	return Content{HTML: html, Text: text}, nil
}
