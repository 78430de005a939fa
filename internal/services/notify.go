package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"elfportal/internal/models"
)

// Notifier pushes short operational notices to the team Telegram channel.
// A nil *Notifier is valid and drops every notice, so wiring stays the same
// whether or not a bot token is configured.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewNotifier(token string, chatID int64) *Notifier {
	if token == "" || chatID == 0 {
		log.Printf("[notify][init] telegram disabled (no token or chat id)")
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("[notify][init][err] telegram: %v", err)
		return nil
	}
	return &Notifier{bot: bot, chatID: chatID}
}

func (n *Notifier) send(text string) {
	if n == nil {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		log.Printf("[notify][send][err] %v", err)
	}
}

func (n *Notifier) TaskAssigned(task *models.Task, project *models.Project) {
	projectName := ""
	if project != nil {
		projectName = project.Name
	}
	n.send(fmt.Sprintf("New task for %s: %q (%s priority, project %s)",
		task.Assignee, task.Title, task.Priority, projectName))
}

func (n *Notifier) LeadReceived(lead models.ContactLead) {
	n.send(fmt.Sprintf("New website enquiry from %s <%s>", lead.Name, lead.Email))
}
