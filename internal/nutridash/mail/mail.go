// Package mail delivers the emailed second-factor codes.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templates embed.FS

var twoFactorTemplate = template.Must(template.ParseFS(templates, "templates/two_factor.html"))

const twoFactorSubject = "Votre Code de vérification - Nutridash"

type twoFactorData struct {
	Code      string
	ExpiresAt string
}

// renderTwoFactor builds the HTML body of the code email. The expiry is shown
// as a wall-clock time in loc.
func renderTwoFactor(code string, expiresAt time.Time, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	var buf bytes.Buffer
	err := twoFactorTemplate.Execute(&buf, twoFactorData{
		Code:      code,
		ExpiresAt: expiresAt.In(loc).Format("15:04:05"),
	})
	if err != nil {
		return "", fmt.Errorf("render two-factor email: %w", err)
	}
	return buf.String(), nil
}

// runWithContext runs fn on its own goroutine and gives up when ctx ends.
// fn keeps running in the background in that case.
func runWithContext(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
