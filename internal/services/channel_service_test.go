package services

import (
	"context"
	"errors"
	"testing"

	"elfportal/internal/models"
	"elfportal/internal/repositories"
)

func newChannelService(t *testing.T) (*ChannelService, *testFixtures) {
	t.Helper()
	conn := newTestDB(t)
	svc := NewChannelService(conn,
		repositories.NewChannelRepository(conn),
		repositories.NewMessageRepository(conn),
		repositories.NewUserRepository(conn))
	return svc, &testFixtures{
		alice: createTestUser(t, conn, "Alice", "alice@elf-ai.co.za"),
		bob:   createTestUser(t, conn, "Bob", "bob@elf-ai.co.za"),
		carol: createTestUser(t, conn, "Carol", "carol@elf-ai.co.za"),
	}
}

type testFixtures struct {
	alice, bob, carol *models.User
}

func ident(u *models.User) models.Identity {
	return models.Identity{UserID: u.ID, Name: u.Name}
}

func TestStartDirectIsOrderIndependent(t *testing.T) {
	t.Parallel()
	svc, fx := newChannelService(t)
	ctx := context.Background()

	fromAlice, err := svc.StartDirect(ctx, ident(fx.alice), fx.bob.ID)
	if err != nil {
		t.Fatalf("StartDirect alice->bob: %v", err)
	}
	fromBob, err := svc.StartDirect(ctx, ident(fx.bob), fx.alice.ID)
	if err != nil {
		t.Fatalf("StartDirect bob->alice: %v", err)
	}

	if fromAlice.ID != fromBob.ID {
		t.Errorf("direct channel ids differ by initiator: got %d and %d", fromAlice.ID, fromBob.ID)
	}
	if fromAlice.Type != models.ChannelDirect {
		t.Errorf("channel type: got %q, want %q", fromAlice.Type, models.ChannelDirect)
	}
}

func TestStartDirectRejectsSelf(t *testing.T) {
	t.Parallel()
	svc, fx := newChannelService(t)

	_, err := svc.StartDirect(context.Background(), ident(fx.alice), fx.alice.ID)
	if !errors.Is(err, ErrSelfDirectChannel) {
		t.Errorf("self direct: got %v, want ErrSelfDirectChannel", err)
	}
}

func TestStartDirectUnknownRecipient(t *testing.T) {
	t.Parallel()
	svc, fx := newChannelService(t)

	_, err := svc.StartDirect(context.Background(), ident(fx.alice), 9999)
	if !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("unknown recipient: got %v, want ErrChannelNotFound", err)
	}
}

func TestGroupPostMembershipAndTouch(t *testing.T) {
	t.Parallel()
	svc, fx := newChannelService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, ident(fx.alice), "Delivery leads", []int64{fx.bob.ID})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	if _, err := svc.Post(ctx, ident(fx.carol), group.ID, "hello"); !errors.Is(err, ErrNotChannelMember) {
		t.Fatalf("non-member post: got %v, want ErrNotChannelMember", err)
	}
	if _, err := svc.Messages(ctx, ident(fx.carol), group.ID); !errors.Is(err, ErrNotChannelMember) {
		t.Fatalf("non-member read: got %v, want ErrNotChannelMember", err)
	}

	if _, err := svc.Post(ctx, ident(fx.bob), group.ID, "hello"); err != nil {
		t.Fatalf("member post: %v", err)
	}

	messages, err := svc.Messages(ctx, ident(fx.alice), group.ID)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("messages after one post: got %d, want 1", len(messages))
	}
	if messages[0].Body != "hello" || messages[0].SenderID != fx.bob.ID {
		t.Errorf("message: got body=%q sender=%d, want body=%q sender=%d",
			messages[0].Body, messages[0].SenderID, "hello", fx.bob.ID)
	}

	after, err := svc.Get(ctx, ident(fx.alice), group.ID)
	if err != nil {
		t.Fatalf("Get after post: %v", err)
	}
	if !after.UpdatedAt.After(group.UpdatedAt) {
		t.Errorf("updated_at did not advance: created=%v after=%v", group.UpdatedAt, after.UpdatedAt)
	}
}

func TestPostRejectsEmptyBody(t *testing.T) {
	t.Parallel()
	svc, fx := newChannelService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, ident(fx.alice), "Ops", nil)
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if _, err := svc.Post(ctx, ident(fx.alice), group.ID, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("blank body: got %v, want ErrEmptyMessage", err)
	}
}

func TestEnsureProjectChannelIsOneToOne(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc := NewChannelService(conn,
		repositories.NewChannelRepository(conn),
		repositories.NewMessageRepository(conn),
		repositories.NewUserRepository(conn))
	ctx := context.Background()

	project := createTestProject(t, conn, "Acme rollout")

	first, err := svc.EnsureProjectChannel(ctx, project)
	if err != nil {
		t.Fatalf("EnsureProjectChannel first: %v", err)
	}
	second, err := svc.EnsureProjectChannel(ctx, project)
	if err != nil {
		t.Fatalf("EnsureProjectChannel second: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("project channel not 1:1: got ids %d and %d", first.ID, second.ID)
	}
	if first.Name != project.Name {
		t.Errorf("channel name: got %q, want %q", first.Name, project.Name)
	}
}

func TestProjectChannelReadableByAnyUser(t *testing.T) {
	t.Parallel()
	conn := newTestDB(t)
	svc := NewChannelService(conn,
		repositories.NewChannelRepository(conn),
		repositories.NewMessageRepository(conn),
		repositories.NewUserRepository(conn))
	ctx := context.Background()

	outsider := createTestUser(t, conn, "Dana", "dana@elf-ai.co.za")
	project := createTestProject(t, conn, "LLM pilot")

	channel, err := svc.EnsureProjectChannel(ctx, project)
	if err != nil {
		t.Fatalf("EnsureProjectChannel: %v", err)
	}
	if _, err := svc.Post(ctx, ident(outsider), channel.ID, "status update"); err != nil {
		t.Errorf("any portal user should post to a project channel: %v", err)
	}
}
