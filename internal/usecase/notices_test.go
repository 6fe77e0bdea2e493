package usecase

import (
	"strings"
	"testing"
)

func TestRenderMail_EscapesAndIncludesScore(t *testing.T) {
	score := 77
	body, err := renderMail(tmplApplicationReceived, mailData{
		Heading:       "New application",
		RecipientName: "Erin",
		CandidateName: "<script>alert(1)</script>",
		JobTitle:      "Backend Engineer",
		Score:         &score,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("expected candidate name escaped")
	}
	if !strings.Contains(body, "77/100") || !strings.Contains(body, "Backend Engineer") {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestRenderMail_AllTemplates(t *testing.T) {
	for _, name := range []string{
		tmplApplicationSubmitted,
		tmplApplicationReceived,
		tmplApplicationAccepted,
		tmplContractReady,
		tmplContractSigned,
	} {
		body, err := renderMail(name, mailData{Heading: "h", RecipientName: "r", JobTitle: "j"})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.Contains(body, "</html>") {
			t.Fatalf("%s: expected full document", name)
		}
	}
}
