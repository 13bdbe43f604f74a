package service

import (
	"context"
	"strings"
	"testing"

	"risk-copilot-be/internal/constant"
	"risk-copilot-be/internal/dto"
	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/repository/memory"

	"github.com/google/uuid"
)

func newTestChatService(uow *fakeUnitOfWork) (IChatService, *fakePublisher) {
	publisher := &fakePublisher{}
	svc := NewChatService(
		&fakeUowFactory{uow: uow},
		newServiceTestOrchestrator(&fakeSearchIndex{}, &fakeLLMProvider{response: "answer"}),
		publisher,
		memory.NewTraceRepository(),
		true,
	)
	return svc, publisher
}

func TestAskDerivesTitleFromSanitizedQuery(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.sessions.session = &entity.ChatSession{
		Id:                uuid.New(),
		Title:             constant.DefaultSessionTitle,
		GuardrailsEnabled: true,
	}
	svc, _ := newTestChatService(uow)

	_, err := svc.Ask(context.Background(), &dto.AskRequest{
		ChatSessionId: uow.sessions.session.Id,
		Query:         "My SSN is 123-45-6789, what does the retention policy say?",
	})
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}

	if uow.sessions.updated == nil {
		t.Fatal("expected the default session title to be replaced")
	}
	title := uow.sessions.updated.Title
	if strings.Contains(title, "123-45-6789") {
		t.Errorf("session title %q stores the raw identifier", title)
	}
	if !strings.Contains(title, "123-") {
		t.Errorf("session title %q should keep the redacted prefix", title)
	}

	for _, msg := range uow.messages.created {
		if strings.Contains(msg.Content, "123-45-6789") {
			t.Errorf("%s message content %q stores the raw identifier", msg.Role, msg.Content)
		}
	}
}

func TestAskKeepsCustomTitle(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.sessions.session = &entity.ChatSession{
		Id:                uuid.New(),
		Title:             "Quarterly limits review",
		GuardrailsEnabled: true,
	}
	svc, _ := newTestChatService(uow)

	_, err := svc.Ask(context.Background(), &dto.AskRequest{
		ChatSessionId: uow.sessions.session.Id,
		Query:         "What are the trading limits?",
	})
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}

	if uow.sessions.updated != nil {
		t.Errorf("custom title was overwritten with %q", uow.sessions.updated.Title)
	}
}

func TestAskReturnTracesInline(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.sessions.session = &entity.ChatSession{
		Id:                uuid.New(),
		Title:             constant.DefaultSessionTitle,
		GuardrailsEnabled: true,
	}
	svc, publisher := newTestChatService(uow)

	resp, err := svc.Ask(context.Background(), &dto.AskRequest{
		ChatSessionId: uow.sessions.session.Id,
		Query:         "Summarize the vendor onboarding process",
		ReturnTraces:  true,
	})
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if len(resp.Traces) == 0 {
		t.Error("expected stage traces inline when requested")
	}

	resp, err = svc.Ask(context.Background(), &dto.AskRequest{
		ChatSessionId: uow.sessions.session.Id,
		Query:         "Summarize the vendor onboarding process",
	})
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if len(resp.Traces) != 0 {
		t.Error("traces must stay out of the response unless requested")
	}
	if len(publisher.published) != 2 {
		t.Errorf("published %d audit trails, want 2", len(publisher.published))
	}
}
