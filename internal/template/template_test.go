package template

import (
	"errors"
	"testing"
)

func emptyLibrary(t *testing.T) *Library {
	t.Helper()
	l, err := NewLibrary(WithoutBuiltins())
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	return l
}

func TestRegisterValidation(t *testing.T) {
	l := emptyLibrary(t)

	if err := l.Register(Template{Key: "", Content: "x"}); err == nil {
		t.Error("empty key should error")
	}
	if err := l.Register(Template{Key: "x", Content: "  "}); err == nil {
		t.Error("empty content should error")
	}
}

func TestRegisterAppliesDefaults(t *testing.T) {
	l := emptyLibrary(t)

	if err := l.Register(Template{Key: "x", Content: "hello"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, err := l.Get("x")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Category != "general" {
		t.Errorf("Category = %q, want general", got.Category)
	}
	if got.Priority != 10 {
		t.Errorf("Priority = %d, want 10", got.Priority)
	}
	if got.Name != "x" {
		t.Errorf("Name = %q, want key fallback", got.Name)
	}
}

func TestGetUnknownKey(t *testing.T) {
	l := emptyLibrary(t)

	_, err := l.Get("nope")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("err = %v, want ErrTemplateNotFound", err)
	}
}

func TestRegisterReplaces(t *testing.T) {
	l := emptyLibrary(t)

	if err := l.Register(Template{Key: "x", Content: "old"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := l.Register(Template{Key: "x", Content: "new"}); err != nil {
		t.Fatalf("Register replace: %v", err)
	}
	got, _ := l.Get("x")
	if got.Content != "new" {
		t.Errorf("Content = %q, want new", got.Content)
	}
}

func TestListSortedAndFiltered(t *testing.T) {
	l := emptyLibrary(t)
	for _, tpl := range []Template{
		{Key: "zz", Content: "x", Category: "blog", Priority: 5},
		{Key: "aa", Content: "x", Category: "blog", Priority: 5},
		{Key: "mm", Content: "x", Category: "outline", Priority: 1},
	} {
		if err := l.Register(tpl); err != nil {
			t.Fatalf("Register(%s): %v", tpl.Key, err)
		}
	}

	all := l.List("")
	if len(all) != 3 {
		t.Fatalf("List returned %d templates", len(all))
	}
	// Priority ascending, key breaks ties.
	if all[0].Key != "mm" || all[1].Key != "aa" || all[2].Key != "zz" {
		t.Errorf("order = %s, %s, %s", all[0].Key, all[1].Key, all[2].Key)
	}

	blog := l.List("blog")
	if len(blog) != 2 {
		t.Errorf("blog filter returned %d templates", len(blog))
	}
}

func TestBuiltinsRegistered(t *testing.T) {
	l, err := NewLibrary()
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}

	for _, key := range []string{
		DefaultKey,
		"blog-post-casual",
		"blog-post-professional",
		"blog-post-technical",
		"outline",
		"revision",
		"seo-optimized",
	} {
		if _, err := l.Get(key); err != nil {
			t.Errorf("builtin %q missing: %v", key, err)
		}
	}
}
