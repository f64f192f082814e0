package services

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/moliceiro/meals/models"
	"github.com/moliceiro/meals/utils"
	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailNotifier e-mails a confirmation with a QR code of the reservation code.
type MailNotifier struct {
	From   string
	Sender MailSender
	wg     sync.WaitGroup
}

func NewMailNotifier(cfg MailConfig) *MailNotifier {
	return &MailNotifier{
		From:   cfg.From,
		Sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<h2>Hello {{.CustomerName}},</h2>
<p>Your reservation is confirmed.</p>
<ul>
<li>Code: <strong>{{.ReservationCode}}</strong></li>
<li>Meal: {{.Meal.Name}} ({{.Meal.MealType}})</li>
<li>Date: {{.Meal.Date}}</li>
<li>Restaurant: {{.Meal.Restaurant.Name}}</li>
<li>People: {{.NumberOfPeople}}</li>
</ul>
<p>Show the attached QR code at check-in.</p>`))

// Message builds the confirmation e-mail for r.
func (n *MailNotifier) Message(r models.Reservation) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := confirmationTmpl.Execute(&body, r); err != nil {
		return nil, err
	}
	qr, err := utils.GenerateQRCode(r.ReservationCode, 256)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.From)
	m.SetHeader("To", r.CustomerEmail)
	m.SetHeader("Subject", fmt.Sprintf("Reservation %s confirmed", r.ReservationCode))
	m.SetBody("text/html", body.String())

	filename := fmt.Sprintf("reservation-%s.png", r.ReservationCode)
	m.Attach(filename, gomail.Rename(filename), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(qr)
		return err
	}))
	return m, nil
}

// ReservationCreated sends the confirmation in the background. Failures are logged.
func (n *MailNotifier) ReservationCreated(r models.Reservation) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		m, err := n.Message(r)
		if err != nil {
			utils.ErrorLogger.Printf("Building confirmation for %s: %v", r.ReservationCode, err)
			return
		}
		if err := n.Sender.DialAndSend(m); err != nil {
			utils.ErrorLogger.Printf("Sending confirmation for %s to %s: %v", r.ReservationCode, r.CustomerEmail, err)
			return
		}
		utils.InfoLogger.Printf("Confirmation for %s sent to %s", r.ReservationCode, r.CustomerEmail)
	}()
}

// Wait blocks until every pending e-mail was handled.
func (n *MailNotifier) Wait() {
	n.wg.Wait()
}
