package intake_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/csg33k/era-intake/internal/domain"
	"github.com/csg33k/era-intake/internal/intake"
)

func newManager(dec *fakeDecoder) (*intake.Attachments, *intake.Notifier) {
	notes := &intake.Notifier{}
	return intake.NewAttachments(dec, notes.Push), notes
}

func TestAccept_RejectsNonImage(t *testing.T) {
	for _, ct := range []string{"application/pdf", "text/plain", "", "imagex/png"} {
		t.Run(ct, func(t *testing.T) {
			a, notes := newManager(&fakeDecoder{})
			done, err := a.Accept(domain.Front, intake.File{Name: "id.pdf", ContentType: ct, Data: []byte("x")})
			require.ErrorIs(t, err, intake.ErrNotImage)
			require.Nil(t, done)
			require.False(t, a.Populated(domain.Front))

			got := notes.Drain()
			require.Len(t, got, 1)
			require.Equal(t, domain.LevelError, got[0].Level)
		})
	}
}

func TestAccept_SizeLimit(t *testing.T) {
	a, notes := newManager(&fakeDecoder{})

	// Scenario C: a 6 MB front image is rejected and the slot stays empty.
	_, err := a.Accept(domain.Front, intake.File{Name: "big.jpg", ContentType: "image/jpeg", Size: 6 * 1000 * 1000})
	require.ErrorIs(t, err, intake.ErrTooLarge)
	require.False(t, a.Populated(domain.Front))
	got := notes.Drain()
	require.Len(t, got, 1)
	require.Contains(t, got[0].Message, "5.0 MiB")

	_, err = a.Accept(domain.Front, jpeg(int(domain.MaxAttachmentBytes)+1))
	require.ErrorIs(t, err, intake.ErrTooLarge)

	done, err := a.Accept(domain.Front, jpeg(int(domain.MaxAttachmentBytes)))
	require.NoError(t, err)
	require.NoError(t, <-done)
	at, ok := a.Snapshot(domain.Front)
	require.True(t, ok)
	require.NotEmpty(t, at.Preview)
	require.Equal(t, domain.Front, at.Side)
}

func TestAccept_RejectionKeepsPriorAttachment(t *testing.T) {
	a, _ := newManager(&fakeDecoder{})
	done, err := a.Accept(domain.Back, jpeg(10))
	require.NoError(t, err)
	require.NoError(t, <-done)

	_, err = a.Accept(domain.Back, intake.File{Name: "x.txt", ContentType: "text/plain"})
	require.Error(t, err)

	done, err = a.Accept(domain.Back, intake.File{Name: "broken.jpg", ContentType: "image/jpeg", Data: []byte("bad bytes")})
	require.NoError(t, err)
	require.ErrorIs(t, <-done, intake.ErrUndecodable)

	at, ok := a.Snapshot(domain.Back)
	require.True(t, ok)
	require.Equal(t, "id.jpg", at.Filename)
}

func TestAccept_NotifiesOnSuccess(t *testing.T) {
	a, notes := newManager(&fakeDecoder{})
	done, err := a.Accept(domain.Front, jpeg(10))
	require.NoError(t, err)
	require.NoError(t, <-done)
	require.Equal(t, []domain.Notification{{Level: domain.LevelSuccess, Message: "Front ID uploaded."}}, notes.Drain())
}

func TestAccept_PendingDecodeIsNotVisible(t *testing.T) {
	dec := &fakeDecoder{gate: make(chan struct{})}
	a, _ := newManager(dec)

	done, err := a.Accept(domain.Front, jpeg(10))
	require.NoError(t, err)
	require.False(t, a.Populated(domain.Front))

	dec.gate <- struct{}{}
	require.NoError(t, <-done)
	require.True(t, a.Populated(domain.Front))
}

func TestAccept_NewerSelectionWins(t *testing.T) {
	dec := &fakeDecoder{gate: make(chan struct{})}
	a, _ := newManager(dec)

	first, err := a.Accept(domain.Front, intake.File{Name: "old.jpg", ContentType: "image/jpeg", Data: []byte{1}})
	require.NoError(t, err)
	second, err := a.Accept(domain.Front, intake.File{Name: "new.jpg", ContentType: "image/jpeg", Data: []byte{2}})
	require.NoError(t, err)

	dec.gate <- struct{}{}
	dec.gate <- struct{}{}
	errs := []error{<-first, <-second}
	require.ErrorIs(t, errs[0], intake.ErrSuperseded)
	require.NoError(t, errs[1])

	at, ok := a.Snapshot(domain.Front)
	require.True(t, ok)
	require.Equal(t, "new.jpg", at.Filename)
}

func TestRemove(t *testing.T) {
	a, notes := newManager(&fakeDecoder{})
	for _, side := range domain.Sides {
		done, err := a.Accept(side, jpeg(10))
		require.NoError(t, err)
		require.NoError(t, <-done)
	}
	notes.Drain()

	removed, err := a.Remove(domain.Front)
	require.NoError(t, err)
	require.True(t, removed)
	require.False(t, a.Populated(domain.Front))
	require.True(t, a.Populated(domain.Back), "other side untouched")
	require.Equal(t, []domain.Notification{{Level: domain.LevelInfo, Message: "Front ID removed."}}, notes.Drain())

	// Removing an empty slot is a silent no-op.
	removed, err = a.Remove(domain.Front)
	require.NoError(t, err)
	require.False(t, removed)
	require.False(t, a.Populated(domain.Front))
	require.Empty(t, notes.Drain())

	_, err = a.Remove(domain.Side("left"))
	require.ErrorIs(t, err, intake.ErrUnknownSide)
}

func TestRemove_DropsPendingDecode(t *testing.T) {
	dec := &fakeDecoder{gate: make(chan struct{})}
	a, _ := newManager(dec)
	done, err := a.Accept(domain.Back, jpeg(10))
	require.NoError(t, err)

	_, err = a.Remove(domain.Back)
	require.NoError(t, err)
	dec.gate <- struct{}{}
	require.ErrorIs(t, <-done, intake.ErrSuperseded)
	require.False(t, a.Populated(domain.Back))
}

func TestInvoke(t *testing.T) {
	a, _ := newManager(&fakeDecoder{})
	b, err := a.Invoke(domain.Back)
	require.NoError(t, err)
	require.Equal(t, "upload-back", b.InputID)
	require.Equal(t, "image/*", b.Accept)
	require.Equal(t, domain.MaxAttachmentBytes, b.MaxBytes)

	_, err = a.Invoke(domain.Side(""))
	require.ErrorIs(t, err, intake.ErrUnknownSide)
}
