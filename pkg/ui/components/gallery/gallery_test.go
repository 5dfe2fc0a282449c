package gallery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"healthchat/pkg/images"
	"healthchat/pkg/ui/components/testutils"
	"healthchat/pkg/ui/components/utils"
)

type stubFetcher struct {
	img   images.Image
	err   error
	calls int
}

func (s *stubFetcher) Random(ctx context.Context) (images.Image, error) {
	s.calls++
	return s.img, s.err
}

func TestPanel_FetchShowsImage(t *testing.T) {
	stub := &stubFetcher{img: images.Image{ID: "abc", URL: "https://cdn2.thecatapi.com/images/abc.jpg", Width: 640, Height: 480}}
	p := New(context.Background(), stub)

	cmd := p.Update(testutils.TestKeyEnter)
	if cmd == nil {
		t.Fatal("Expected fetch command")
	}
	if !strings.Contains(utils.StripANSI(p.View()), loadingText) {
		t.Error("Expected loading text while fetching")
	}

	p.Update(cmd())
	got := utils.StripANSI(p.View())
	if !strings.Contains(got, "https://cdn2.thecatapi.com/images/abc.jpg") {
		t.Errorf("Expected image URL, got:\n%s", got)
	}
	if !strings.Contains(got, "640 × 480") {
		t.Errorf("Expected dimensions, got:\n%s", got)
	}
	if img, ok := p.Image(); !ok || img.ID != "abc" {
		t.Errorf("Unexpected image %+v", img)
	}
}

func TestPanel_FetchError(t *testing.T) {
	p := New(context.Background(), &stubFetcher{err: errors.New("down")})

	p.Update(p.Fetch()())
	if !strings.Contains(utils.StripANSI(p.View()), failedText) {
		t.Error("Expected failure text")
	}
	if p.Loading() {
		t.Error("Loading should be cleared")
	}
}

func TestPanel_IgnoresKeysWhileLoading(t *testing.T) {
	stub := &stubFetcher{img: images.Image{URL: "u"}}
	p := New(context.Background(), stub)

	first := p.Update(testutils.NewTextKeyPressMsg("r"))
	if first == nil {
		t.Fatal("Expected fetch command")
	}
	if cmd := p.Update(testutils.NewTextKeyPressMsg("r")); cmd != nil {
		t.Error("Expected no second fetch while loading")
	}
}

func TestPanel_StaleResultDropped(t *testing.T) {
	p := New(context.Background(), &stubFetcher{})

	p.Fetch()
	p.Fetch()
	p.Update(ResultMsg{Seq: 1, Image: images.Image{URL: "old"}})

	if _, ok := p.Image(); ok {
		t.Error("Stale result should be dropped")
	}
	if !p.Loading() {
		t.Error("Newest fetch is still pending")
	}
}
