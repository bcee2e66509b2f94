package dispatch

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the key.
const (
	msgReminderTitle  = "Time for a Break"
	msgReminderBody   = "You've been working for %d minutes!\nTimer resets after %d min away"
	msgWaitingTitle   = "CLI waiting"
	msgWaitingBody    = "%s is waiting for your input!"
	msgTestTitle      = "Sitting Reminder"
	msgTestBody       = "You've been sitting for %d minutes. Time to stretch!"
	msgNoCLIRunning   = "No CLI running"
	msgSittingMinutes = "Sitting: %dm"
	msgSittingHours   = "Sitting: %dh %dm"
)

var chinese = map[string]string{
	msgReminderTitle:  "该休息了",
	msgReminderBody:   "你已经连续工作%d分钟了！\n离开%d分钟后自动重置计时",
	msgWaitingTitle:   "CLI 等待中",
	msgWaitingBody:    "%s 正在等待你的输入，请查看终端！",
	msgTestTitle:      "久坐提醒",
	msgTestBody:       "你已经坐了%d分钟了，起来活动一下吧！",
	msgNoCLIRunning:   "无CLI运行",
	msgSittingMinutes: "已坐 %d分钟",
	msgSittingHours:   "已坐 %d小时%d分钟",
}

func init() {
	for key, zh := range chinese {
		_ = message.SetString(language.English, key, key)
		_ = message.SetString(language.Chinese, key, zh)
	}
}

// Texts renders user-facing strings in one language.
type Texts struct {
	p *message.Printer
}

// NewTexts returns texts for a config language code ("en" or "zh").
// Unknown codes fall back to English.
func NewTexts(lang string) *Texts {
	tag := language.English
	if lang == "zh" {
		tag = language.Chinese
	}
	return &Texts{p: message.NewPrinter(tag)}
}

// ReminderTitle is the title of a break reminder.
func (t *Texts) ReminderTitle() string { return t.p.Sprintf(msgReminderTitle) }

// ReminderBody is the body of a break reminder.
func (t *Texts) ReminderBody(minutes, restMinutes int) string {
	return t.p.Sprintf(msgReminderBody, minutes, restMinutes)
}

// WaitingTitle is the title of the CLI-waiting alert.
func (t *Texts) WaitingTitle() string { return t.p.Sprintf(msgWaitingTitle) }

// WaitingBody names the session that is waiting.
func (t *Texts) WaitingBody(name string) string { return t.p.Sprintf(msgWaitingBody, name) }

// TestTitle is the title of a test reminder.
func (t *Texts) TestTitle() string { return t.p.Sprintf(msgTestTitle) }

// TestBody is the body of a test reminder.
func (t *Texts) TestBody(minutes int) string { return t.p.Sprintf(msgTestBody, minutes) }

// NoCLIRunning is shown when no session is tracked.
func (t *Texts) NoCLIRunning() string { return t.p.Sprintf(msgNoCLIRunning) }

// SittingTime formats the sitting counter, switching to hours at 60 minutes.
func (t *Texts) SittingTime(minutes int) string {
	if minutes >= 60 {
		return t.p.Sprintf(msgSittingHours, minutes/60, minutes%60)
	}
	return t.p.Sprintf(msgSittingMinutes, minutes)
}
