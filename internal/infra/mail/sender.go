package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	NotifyTo string
}

func NewEmailSender(host string, port int, user, password, from, notifyTo string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		NotifyTo: notifyTo,
	}
}

var wonLeadTemplate = template.Must(template.New("won-lead").Parse(
	`<h2>🎉 Negócio fechado!</h2>
<p>O lead <strong>{{.LeadName}}</strong> acabou de entrar na etapa <strong>{{.StageTitle}}</strong>.</p>
{{if .Value}}<p>Valor: <strong>{{.Value}}</strong></p>{{end}}
<p>Abra o painel para ver os números atualizados.</p>`))

type wonLeadData struct {
	LeadName   string
	StageTitle string
	Value      string
}

// SendWonLeadAlert avisa o dono do workspace que um lead chegou em etapa de
// ganho. Dados incompletos não derrubam o worker: loga e segue.
func (s *EmailSender) SendWonLeadAlert(leadName, stageTitle, formattedValue string) error {
	if s.NotifyTo == "" {
		return nil
	}

	var body bytes.Buffer
	data := wonLeadData{LeadName: leadName, StageTitle: stageTitle, Value: formattedValue}
	if err := wonLeadTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.NotifyTo)
	m.SetHeader("Subject", fmt.Sprintf("Negócio fechado: %s 🎉", leadName))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
