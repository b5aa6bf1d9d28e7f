package service

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"text/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"

	"readwell/internal/assessment"
)

// sesAPI is the part of the SES client the email service uses
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client    sesAPI
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service. An empty fromEmail gives a
// disabled service that skips every send.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Info().Msg("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info().Str("from", fromEmail).Str("region", awsRegion).Msg("Email service enabled")

	return newEmailServiceWithClient(sesv2.NewFromConfig(cfg), fromEmail, fromName, debug), nil
}

func newEmailServiceWithClient(client sesAPI, fromEmail, fromName string, debug bool) *EmailService {
	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

type reportEmailData struct {
	ChildName    string
	OverallScore string
	Severity     assessment.Severity
	Categories   []reportCategory
	ShareURL     string
}

type reportCategory struct {
	Label           string
	Score           string
	Recommendations []string
}

var reportHTML = htmltemplate.Must(htmltemplate.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Reading Screening Results for {{.ChildName}}</h1>
		</div>
		<div class="content">
			<p><strong>Overall score:</strong> {{.OverallScore}} ({{.Severity}})</p>
			{{range .Categories}}
			<h3>{{.Label}}: {{.Score}}</h3>
			<ul>{{range .Recommendations}}<li>{{.}}</li>{{end}}</ul>
			{{end}}
			{{if .ShareURL}}<p>View the full report online: <a href="{{.ShareURL}}">{{.ShareURL}}</a></p>{{end}}
			<p>This screening is not a diagnosis. Please share these results with your child's teacher or a qualified specialist.</p>
		</div>
		<div class="footer">
			<p>This is an automated email from ReadWell. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`))

var reportText = template.Must(template.New("report").Parse(`Reading Screening Results for {{.ChildName}}

Overall score: {{.OverallScore}} ({{.Severity}})
{{range .Categories}}
{{.Label}}: {{.Score}}
{{range .Recommendations}}- {{.}}
{{end}}{{end}}
{{if .ShareURL}}View the full report online: {{.ShareURL}}
{{end}}
This screening is not a diagnosis. Please share these results with your child's teacher or a qualified specialist.

---
This is an automated email from ReadWell. Please do not reply.
`))

// SendAssessmentReport emails a completed questionnaire result to the parent
func (s *EmailService) SendAssessmentReport(ctx context.Context, toEmail, childName string, result assessment.Result, shareURL string) error {
	if !s.enabled {
		log.Info().Str("to", toEmail).Msg("Skipping email send (service disabled): assessment report")
		return nil
	}

	data := reportEmailData{
		ChildName:    childName,
		OverallScore: fmt.Sprintf("%.0f", result.OverallScore),
		Severity:     result.SeverityLevel,
		ShareURL:     shareURL,
	}
	for _, c := range assessment.Categories() {
		data.Categories = append(data.Categories, reportCategory{
			Label:           c.Label(),
			Score:           fmt.Sprintf("%.0f", result.CategoryScores[string(c)]),
			Recommendations: result.Recommendations[c.Label()],
		})
	}

	var htmlBody, textBody bytes.Buffer
	if err := reportHTML.Execute(&htmlBody, data); err != nil {
		return fmt.Errorf("failed to render report email: %w", err)
	}
	if err := reportText.Execute(&textBody, data); err != nil {
		return fmt.Errorf("failed to render report email: %w", err)
	}

	subject := fmt.Sprintf("Reading screening results for %s", childName)
	return s.sendEmail(ctx, toEmail, subject, htmlBody.String(), textBody.String())
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Debug().Str("from", fromAddress).Str("to", toEmail).Str("subject", subject).
			Int("html_bytes", len(htmlBody)).Int("text_bytes", len(textBody)).Msg("Sending email")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	event := log.Info().Str("to", toEmail).Str("subject", subject)
	if result.MessageId != nil {
		event = event.Str("message_id", *result.MessageId)
	}
	event.Msg("Email sent")
	return nil
}
