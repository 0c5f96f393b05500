// Package notify renders pipeline output for a headless desktop session:
// statuses and answers go to the log, fatal startup problems to a
// platform dialog.
package notify

import (
	"log"

	"screen-answerer/logutil"
	"screen-answerer/pipeline"
)

const maxLogRunes = 200

// Notifier implements the pipeline presenter on top of the process log.
type Notifier struct{}

func New() *Notifier { return &Notifier{} }

func (n *Notifier) ShowStatus(status pipeline.Status) {
	if status.Severity == pipeline.SeverityError {
		log.Printf("status: ERROR: %s", status.Text)
		return
	}
	log.Printf("status: %s", status.Text)
}

func (n *Notifier) ClearStatus() {
	log.Printf("status: cleared")
}

func (n *Notifier) ShowAnswer(text string) {
	log.Printf("answer: %s", logutil.TruncateText(text, maxLogRunes))
}

func (n *Notifier) ClearAnswer() {}

func (n *Notifier) ShowRecognizedText(text string) {
	log.Printf("recognized: %s", logutil.TruncateText(text, maxLogRunes))
}

// ShowBlockingError displays a modal error dialog where the platform has
// one, and logs everywhere. Used for startup failures before the tray
// exists.
func ShowBlockingError(title, message string) {
	log.Printf("%s: %s", title, message)
	showBlockingDialog(title, message)
}
