package tui

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stockdeck/stockdeck/internal/auth"
	"github.com/stockdeck/stockdeck/internal/datasync"
	"github.com/stockdeck/stockdeck/internal/model"
	"github.com/stockdeck/stockdeck/internal/prefs"
	"github.com/stockdeck/stockdeck/internal/store"
)

type stubAuth struct {
	uid       string
	listeners []func(string)
}

func (a *stubAuth) CurrentUserID() string { return a.uid }
func (a *stubAuth) OnAuthStateChange(fn func(string)) func() {
	a.listeners = append(a.listeners, fn)
	fn(a.uid)
	return func() {}
}
func (a *stubAuth) SignIn(context.Context, string, string) error               { return nil }
func (a *stubAuth) SignUp(context.Context, string, string, auth.Profile) error { return nil }
func (a *stubAuth) SignOut() error                                             { return nil }
func (a *stubAuth) SendPasswordReset(context.Context, string) error            { return nil }

type stubStore struct {
	onSnap  func(store.Snapshot)
	writes  []map[string]any
	deletes []string
	nextKey string
}

func (s *stubStore) Subscribe(collection string, onSnapshot func(store.Snapshot), onError func(error)) func() {
	s.onSnap = onSnapshot
	return func() {}
}
func (s *stubStore) Create(string) (string, error) { return s.nextKey, nil }
func (s *stubStore) Write(collection, key string, fields map[string]any) error {
	s.writes = append(s.writes, fields)
	return nil
}
func (s *stubStore) Delete(collection, key string) error {
	s.deletes = append(s.deletes, key)
	return nil
}

type stubBlobs struct {
	uploads int
}

func (b *stubBlobs) Upload(ctx context.Context, ref string, r io.Reader) (string, error) {
	b.uploads++
	return ref, nil
}
func (b *stubBlobs) URL(ctx context.Context, ref string) (string, error) {
	return "file:///objects/" + ref, nil
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testApp(t *testing.T, st *stubStore, blobs *stubBlobs) (*App, *stubAuth) {
	t.Helper()
	au := &stubAuth{uid: "merchant-a"}
	pf, err := prefs.Load(t.TempDir())
	if err != nil {
		t.Fatalf("prefs: %v", err)
	}
	caps := Caps{Auth: au, Store: st, Blobs: blobs, Prefs: pf}
	items := datasync.NewFeed(au, st, model.CollectionItems,
		func(k string, f map[string]any) model.Record { return model.ItemFromFields(k, f) }, nil)
	// Items subscribed last wins st.onSnap; keep a dedicated store per
	// test where that matters.
	cats := datasync.NewFeed(au, st, model.CollectionCategories,
		func(k string, f map[string]any) model.Record { return model.CategoryFromFields(k, f) }, nil)
	t.Cleanup(func() { items.Close(); cats.Close() })

	a := New(context.Background(), caps, items, cats)
	a.width, a.height = 120, 40
	return a, au
}

func TestPhotoNeedsUpload(t *testing.T) {
	tests := []struct {
		photo string
		want  bool
	}{
		{"", false},
		{"https://cdn.example.com/x.png", false},
		{"http://cdn.example.com/x.png", false},
		{"file:///objects/images/x.png", false},
		{"/home/user/photo.png", true},
		{"photo.png", true},
	}
	for _, tt := range tests {
		if got := photoNeedsUpload(tt.photo); got != tt.want {
			t.Fatalf("photoNeedsUpload(%q) = %v, want %v", tt.photo, got, tt.want)
		}
	}
}

func TestEditKeepsExistingPhotoURLWithoutUpload(t *testing.T) {
	st := &stubStore{}
	blobs := &stubBlobs{}
	a, _ := testApp(t, st, blobs)
	s := a.itemsScreen

	orig := model.Item{
		ID: "key-1", Name: "Mug", Price: "9", Cost: "4",
		Photo: "https://cdn.example.com/mug.png", MerchantID: "merchant-a", CreatedAt: 1,
	}
	s.openModal(&orig)
	s.name.value = "Mug XL"

	cmd := s.updateCmd(a, orig)
	msg := cmd().(itemMutationMsg)
	if msg.err != nil {
		t.Fatalf("update: %v", msg.err)
	}
	if blobs.uploads != 0 {
		t.Fatalf("uploads = %d, want 0 when photo is an unchanged URL", blobs.uploads)
	}
	if len(st.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(st.writes))
	}
	if got := st.writes[0]["photo"]; got != "https://cdn.example.com/mug.png" {
		t.Fatalf("stored photo = %v, want original URL", got)
	}
	if got := st.writes[0]["updatedAt"]; got == nil {
		t.Fatal("updatedAt not stamped on edit")
	}
}

func TestVariantsClearTopLevelPricingInStoredPayload(t *testing.T) {
	st := &stubStore{nextKey: "key-9"}
	a, _ := testApp(t, st, &stubBlobs{})
	s := a.itemsScreen

	s.openModal(nil)
	s.name.value = "Tee"
	s.price.value = "15"
	s.cost.value = "6"
	s.appendVariant(model.Variant{Name: "Small", Price: "5", Cost: "2"})
	s.rebuildForm()

	msg := s.createCmd(a)().(itemMutationMsg)
	if msg.err != nil {
		t.Fatalf("create: %v", msg.err)
	}
	fields := st.writes[0]
	if fields["price"] != "" || fields["cost"] != "" {
		t.Fatalf("price/cost = %v/%v, want cleared when variants present",
			fields["price"], fields["cost"])
	}
	if fields["merchantId"] != "merchant-a" {
		t.Fatalf("merchantId = %v", fields["merchantId"])
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	st := &stubStore{}
	a, _ := testApp(t, st, &stubBlobs{})
	s := a.categoriesScreen

	st.onSnap(store.Snapshot{{
		Key:    "key-3",
		Fields: map[string]any{"merchantId": "merchant-a", "name": "Drinks", "description": "d"},
	}})
	if len(s.feed.Records()) != 1 {
		t.Fatal("setup: feed empty")
	}

	// Cancel path: no delete reaches the store.
	s.handleKey(a, keyPress("d"))
	if s.mode != modeConfirmDelete {
		t.Fatalf("mode = %s, want confirm prompt", s.mode)
	}
	s.handleKey(a, keyPress("n"))
	if len(st.deletes) != 0 {
		t.Fatal("delete issued without confirmation")
	}
	if s.mode != modeIdle {
		t.Fatalf("mode = %s after cancel", s.mode)
	}

	// Confirm path: exactly one delete with the record's key.
	s.handleKey(a, keyPress("d"))
	_, cmd := s.handleKey(a, keyPress("y"))
	if cmd == nil {
		t.Fatal("confirm did not produce a command")
	}
	msg := cmd().(categoryMutationMsg)
	if msg.err != nil {
		t.Fatalf("delete: %v", msg.err)
	}
	if len(st.deletes) != 1 || st.deletes[0] != "key-3" {
		t.Fatalf("deletes = %v, want exactly [key-3]", st.deletes)
	}
}

func TestStaleMutationCompletionDropped(t *testing.T) {
	st := &stubStore{nextKey: "k"}
	a, _ := testApp(t, st, &stubBlobs{})
	s := a.itemsScreen

	stale := itemMutationMsg{gen: s.gen, kind: mutCreate}
	s.reset() // e.g. owner switched while the write was in flight
	if cmd := s.applyMutation(a, stale); cmd != nil {
		t.Fatal("stale completion produced a toast")
	}
}

func TestLogoutRoutesToSignIn(t *testing.T) {
	st := &stubStore{}
	a, au := testApp(t, st, &stubBlobs{})

	au.uid = ""
	model2, _ := a.Update(authChangedMsg{uid: ""})
	app := model2.(*App)
	if app.view != viewSignIn {
		t.Fatalf("view = %s, want sign-in after sign-out", app.view)
	}
}

func TestSignUpScreenValidation(t *testing.T) {
	s := newSignUpScreen()
	if s.validate() {
		t.Fatal("empty form must not validate")
	}
	if s.business.err == "" || s.email.err == "" || s.password.err == "" {
		t.Fatal("missing required-field errors")
	}

	s.form.clearErrors()
	s.business.value = "Corner Shop"
	s.phone.value = "555"
	s.email.value = "not-an-email"
	s.password.value = "secret1"
	if s.validate() {
		t.Fatal("malformed email must not validate")
	}
	if s.email.err == "" {
		t.Fatal("email error missing")
	}

	s.form.clearErrors()
	s.email.value = "owner@shop.io"
	if !s.validate() {
		t.Fatal("complete form must validate")
	}
}
