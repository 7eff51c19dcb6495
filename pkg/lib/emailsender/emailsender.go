package emailsender

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/gomail.v2"

	"moiport/config"
)

type EmailSender struct {
	SmtpServer *gomail.Dialer
	fromEmail  string
}

// New dials the SMTP server once so a bad password fails at startup, not on
// the first invite.
func New(cfg config.SMTPConfig) (*EmailSender, error) {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, os.Getenv("SMTP_PASSWORD"))

	conn, err := d.Dial()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server %s:%d for user %s: %w", cfg.Host, cfg.Port, cfg.Username, err)
	}
	defer conn.Close()

	return &EmailSender{SmtpServer: d, fromEmail: cfg.Username}, nil
}

// SendStaffInvite mails an invite link for joining an agency workspace.
func (e *EmailSender) SendStaffInvite(recipientEmail, tenantName, inviteLink string, expiresAt time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.fromEmail)
	m.SetHeader("To", recipientEmail)
	m.SetHeader("Subject", fmt.Sprintf("You are invited to join %s on MOI Port", tenantName))

	body := `<!DOCTYPE html>
    <html lang="en">
    <head>
        <meta charset="UTF-8">
        <meta name="viewport" content="width=device-width, initial-scale=1.0">
        <title>Staff Invitation - MOI Port</title>
        <style>
            body {
                font-family: Arial, sans-serif;
                background-color: #f4f4f4;
                margin: 0;
                padding: 20px;
                color: #333;
            }
            .container {
                max-width: 600px;
                margin: auto;
                background: white;
                padding: 20px;
                border-radius: 8px;
                box-shadow: 0 2px 10px rgba(0,0,0,0.1);
            }
            h1 {
                color: #2c3e50;
                font-size: 24px;
                text-align: center;
            }
            .button-container {
                text-align: center;
                margin: 25px 0;
            }
            .button {
                display: inline-block;
                padding: 12px 28px;
                background: #025ADD;
                color: white;
                text-decoration: none;
                border-radius: 5px;
                font-weight: bold;
            }
            .footer {
                font-size: 12px;
                color: #777;
                text-align: center;
                margin-top: 30px;
                padding-top: 15px;
                border-top: 1px solid #eee;
            }
        </style>
    </head>
    <body>
        <div class="container">
            <h1>Join ` + tenantName + ` on MOI Port</h1>
            <p>Hello!</p>
            <p>You have been invited to join the <b>` + tenantName + `</b> workspace. Click the button below to accept the invitation and create your account:</p>
            <div class="button-container">
                <a class="button" href="` + inviteLink + `">Accept Invitation</a>
            </div>
            <p>This invitation expires on ` + expiresAt.Format("02 Jan 2006 15:04 MST") + `.</p>
            <p>If you did not expect this invitation, you can safely ignore this email.</p>
        </div>
        <div class="footer">
            <p>© ` + fmt.Sprint(time.Now().Year()) + ` MOI Port.</p>
        </div>
    </body>
    </html>`
	m.SetBody("text/html", body)

	if err := e.SmtpServer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invite email to %s: %w", recipientEmail, err)
	}
	return nil
}
