package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophcloud/internal/models"
)

func (a *App) login(ctx context.Context, args []string) error {
	email := strings.ToLower(strings.TrimSpace(args[0]))
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email %q", args[0])
	}

	p, err := a.catalog.GetUserProfile(ctx, email)
	if err != nil {
		return err
	}
	if p == nil {
		name := words(args[1:])
		if name == "" {
			name = email[:strings.Index(email, "@")]
		}
		p = &models.Profile{ID: a.newID(), Email: email, Name: name}
		if err := a.catalog.SaveUserProfile(ctx, *p); err != nil {
			return err
		}
		a.log.Info(ctx, "profile created", "user", email)
	}

	a.setUser(email)
	fmt.Fprintf(a.out, "Logged in as %s <%s>\n", p.Name, p.Email)
	return nil
}

func (a *App) logout(context.Context, []string) error {
	a.setUser("")
	return nil
}

func (a *App) users(ctx context.Context, args []string) error {
	found, err := a.catalog.SearchUsers(ctx, words(args))
	if err != nil {
		return err
	}
	for _, p := range found {
		fmt.Fprintf(a.out, "%-30s %s\n", p.Email, p.Name)
	}
	return nil
}

func (a *App) message(ctx context.Context, args []string) error {
	to := strings.ToLower(args[0])
	m := models.Message{
		ID:         a.newID(),
		SenderID:   a.user,
		ReceiverID: to,
		Text:       words(args[1:]),
		Timestamp:  a.now().UTC(),
	}
	if err := a.catalog.SaveDirectMessage(ctx, m); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Sent to", to)
	return nil
}

func (a *App) inbox(ctx context.Context, _ []string) error {
	msgs, err := a.catalog.ListUserMessages(ctx, a.user)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		peer, dir := m.SenderID, "<-"
		if m.SenderID == a.user {
			peer, dir = m.ReceiverID, "->"
		}
		fmt.Fprintf(a.out, "%s %s %s: %s\n", m.Timestamp.Local().Format("2006-01-02 15:04"), dir, peer, m.Text)
	}
	return nil
}

var errWipeNotConfirmed = errors.New("this deletes every local file, profile and message; type 'wipe yes' to confirm")

func (a *App) wipe(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "yes" {
		return errWipeNotConfirmed
	}
	if err := a.store.Wipe(ctx); err != nil {
		return err
	}
	a.setUser("")
	fmt.Fprintln(a.out, "Local data deleted")
	return nil
}
