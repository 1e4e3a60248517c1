package voice

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

// Canned transcripts for a weak, an average and a strong candidate. The
// demo client picks one deterministically from the call ID so repeated runs
// for one call stay stable.
var demoTranscripts = []string{
	`Interviewer: Hallo! Vielen Dank für Ihr Interesse. Könnten Sie sich vorstellen?

Kandidat: Äh ja, hallo. Ich bin... äh... ich heiße Anna Schmidt. Ich habe... äh... Informatik studiert aber noch nicht so viel Erfahrung.

Interviewer: Können Sie mir von einem Projekt erzählen, an dem Sie gearbeitet haben?

Kandidat: Ja also... in der Uni haben wir mal eine Website gemacht. Mit HTML und CSS. War aber nicht so kompliziert. Ich habe auch mal versucht JavaScript zu lernen aber das war schwierig.

Interviewer: Haben Sie schon mal im Team gearbeitet?

Kandidat: Nicht wirklich... ich arbeite lieber alleine. Teamwork ist manchmal stressig.

Interviewer: Haben Sie Fragen?

Kandidat: Äh... wie viel verdient man denn so?`,

	`Interviewer: Hallo! Vielen Dank für Ihr Interesse an unserer Position. Könnten Sie sich zunächst kurz vorstellen?

Kandidat: Hallo! Ja gerne. Ich bin Max Mustermann, 28 Jahre alt und arbeite seit 5 Jahren als Software Entwickler. Ich habe Informatik studiert und spezialisiere mich hauptsächlich auf Python und JavaScript.

Interviewer: Das klingt interessant! Können Sie mir mehr über Ihre aktuellen Projekte erzählen?

Kandidat: Aktuell entwickle ich eine E-Commerce-Plattform mit Django und React. Ich bin sehr motiviert und lerne gerne neue Technologien. Die Zusammenarbeit im Team gefällt mir besonders gut.

Interviewer: Haben Sie Erfahrung mit agilen Entwicklungsmethoden?

Kandidat: Ja, wir arbeiten mit Scrum. Code Reviews sind für mich selbstverständlich und ich verwende Git für Versionskontrolle.

Interviewer: Vielen Dank für das Gespräch! Sie erhalten in den nächsten Tagen eine Rückmeldung.`,

	`Interviewer: Hallo! Freut mich, dass Sie Zeit für das Gespräch haben. Stellen Sie sich gerne vor.

Kandidat: Hallo! Sehr gerne. Ich bin Dr. Sarah Weber, Senior Software Architect mit 12 Jahren Erfahrung. Meine Expertise liegt in skalierbaren Backend-Systemen, Microservices und Cloud-Architekturen.

Interviewer: Sehr beeindruckend! Erzählen Sie von Ihren aktuellen Projekten.

Kandidat: Ich habe eine komplette Microservices-Architektur mit Kubernetes designed und implementiert. Ich habe auch ein Team von 8 Entwicklern geleitet und Mentoring übernommen. Continuous Learning ist für mich essentiell, ich bin hochmotiviert und begeistere mich für neue Technologien in der Software-Entwicklung.

Interviewer: Haben Sie Fragen?

Kandidat: Ja, wie ist die technische Roadmap für die nächsten zwei Jahre?`,
}

// DemoClient simulates the voice platform for local runs without API keys.
type DemoClient struct{}

// NewDemoClient creates a simulated voice client.
func NewDemoClient() *DemoClient {
	return &DemoClient{}
}

// CreateAssistant returns a fresh simulated assistant.
func (c *DemoClient) CreateAssistant(_ context.Context) (*Assistant, error) {
	assistant := &Assistant{
		ID:     fmt.Sprintf("demo_assistant_%04d", rand.IntN(9000)+1000),
		Name:   "HR Interview Agent (Demo)",
		Status: "created",
	}
	slog.Info("Demo assistant created", "assistant_id", assistant.ID)
	return assistant, nil
}

// InitiateCall returns a simulated call without dialing anyone.
func (c *DemoClient) InitiateCall(_ context.Context, phoneNumber, assistantID string) (*Call, error) {
	call := &Call{
		ID:     fmt.Sprintf("demo_call_%05d", rand.IntN(90000)+10000),
		Status: "initiated",
	}
	slog.Info("Demo call initiated",
		"call_id", call.ID,
		"phone_number", phoneNumber,
		"assistant_id", assistantID)
	return call, nil
}

// GetCallDetails returns canned details with a sample transcript chosen from
// the digits of the call ID.
func (c *DemoClient) GetCallDetails(_ context.Context, callID string) (*CallDetails, error) {
	return &CallDetails{
		ID:           callID,
		Status:       "completed",
		Duration:     rand.IntN(900) + 900,
		Transcript:   demoTranscripts[digitSum(callID)%len(demoTranscripts)],
		RecordingURL: fmt.Sprintf("https://demo.vapi.ai/recordings/%s.mp3", callID),
	}, nil
}

func digitSum(s string) int {
	sum := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sum += int(r - '0')
		}
	}
	return sum
}
