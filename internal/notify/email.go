package notify

import (
	"fmt"
	"strings"

	"shop-service/config"
	"shop-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/wneessen/go-mail"
)

func itemQty(q int) decimal.Decimal {
	return decimal.NewFromInt(int64(q))
}

// Mailer sends transactional email over SMTP.
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) dialAndSend(msg *mail.Msg) error {
	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	return client.DialAndSend(msg)
}

// SendOrderConfirmation emails an order summary to the buyer.
func (m *Mailer) SendOrderConfirmation(to string, event *models.OrderPlacedEvent) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(fmt.Sprintf("Order #%d confirmed", event.OrderID))
	msg.SetBodyString(mail.TypeTextHTML, orderConfirmationHTML(event))

	if err := m.dialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

func orderConfirmationHTML(event *models.OrderPlacedEvent) string {
	var rows strings.Builder
	for _, item := range event.Items {
		lineTotal := item.PriceAtPurchase.Mul(itemQty(item.Quantity))
		rows.WriteString(fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border: 1px solid #ddd;">#%d</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
			</tr>`, item.ProductID, item.Quantity, item.PriceAtPurchase.StringFixed(2), lineTotal.StringFixed(2)))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Order confirmation</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Thanks for your order!</h2>
		<p>Your order #%d has been placed (%s).</p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Product</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Qty</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Unit price</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 8px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 8px; font-weight: bold;">%s</td>
				</tr>
			</tfoot>
		</table>
	</div>
</body>
</html>`, event.OrderID, event.FulfillmentMethod, rows.String(), event.TotalAmount.StringFixed(2))
}
