package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const interviewInstructions = `Du bist ein professioneller HR-Interviewassistent für ein deutsches Unternehmen.

WICHTIGE VERHALTENSREGELN:
- Sprich ausschließlich Deutsch
- Sei höflich, professionell aber freundlich
- Führe ein strukturiertes 20-30 Minuten Interview
- Stelle offene Fragen und höre aktiv zu
- Bewerte nicht während des Gesprächs, sammle nur Informationen

INTERVIEW-STRUKTUR:
1. Begrüßung und Vorstellung (2-3 Min)
2. Werdegang und Erfahrungen (8-10 Min)
3. Motivation und Ziele (5-7 Min)
4. Fachliche Kompetenzen (8-10 Min)
5. Fragen des Kandidaten (3-5 Min)
6. Verabschiedung (1-2 Min)

Halte Antworten kurz und präzise. Stelle maximal 1-2 Fragen pro Turn.`

// VapiClient implements Client against the Vapi REST API.
type VapiClient struct {
	baseURL       string
	apiKey        string
	phoneNumberID string
	httpClient    *http.Client
}

// NewVapiClient creates a Vapi-backed voice client.
func NewVapiClient(baseURL, apiKey, phoneNumberID string) *VapiClient {
	return &VapiClient{
		baseURL:       baseURL,
		apiKey:        apiKey,
		phoneNumberID: phoneNumberID,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateAssistant provisions the interview assistant.
func (c *VapiClient) CreateAssistant(ctx context.Context) (*Assistant, error) {
	payload := map[string]interface{}{
		"name": "HR Interview Agent",
		"model": map[string]interface{}{
			"provider":    "openai",
			"model":       "gpt-4-turbo",
			"temperature": 0.7,
			"maxTokens":   500,
		},
		"voice": map[string]interface{}{
			"provider": "11labs",
			"voiceId":  "21m00Tcm4TlvDq8ikWAM",
		},
		"firstMessage":       "Hallo! Vielen Dank für Ihr Interesse an unserer Position. Ich bin Ihr AI-Interviewassistent und führe heute das erste Gespräch mit Ihnen. Könnten Sie sich zunächst kurz vorstellen?",
		"systemMessage":      interviewInstructions,
		"endCallMessage":     "Vielen Dank für das Gespräch! Sie erhalten in den nächsten Tagen eine Rückmeldung von unserem HR-Team.",
		"recordingEnabled":   true,
		"maxDurationSeconds": 1800,
	}

	var assistant Assistant
	if err := c.do(ctx, http.MethodPost, "/assistant", payload, &assistant); err != nil {
		return nil, fmt.Errorf("create assistant: %w", err)
	}
	if assistant.ID == "" {
		return nil, fmt.Errorf("create assistant: response missing id")
	}
	return &assistant, nil
}

// InitiateCall places an outbound call to the candidate.
func (c *VapiClient) InitiateCall(ctx context.Context, phoneNumber, assistantID string) (*Call, error) {
	payload := map[string]interface{}{
		"assistant":     map[string]string{"assistantId": assistantID},
		"phoneNumberId": c.phoneNumberID,
		"customer":      map[string]string{"number": phoneNumber},
	}

	var call Call
	if err := c.do(ctx, http.MethodPost, "/call", payload, &call); err != nil {
		return nil, fmt.Errorf("initiate call: %w", err)
	}
	if call.ID == "" {
		return nil, fmt.Errorf("initiate call: response missing id")
	}
	return &call, nil
}

// GetCallDetails fetches transcript and recording for a finished call.
func (c *VapiClient) GetCallDetails(ctx context.Context, callID string) (*CallDetails, error) {
	var details CallDetails
	if err := c.do(ctx, http.MethodGet, "/call/"+callID, nil, &details); err != nil {
		return nil, fmt.Errorf("get call details: %w", err)
	}
	return &details, nil
}

func (c *VapiClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s returned status %d: %s", method, path, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
