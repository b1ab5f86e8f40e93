package main

import (
	"fmt"
	"io"
	"strings"

	"blog-client/internal/action"
	"blog-client/internal/model"
	"blog-client/internal/state"
)

func renderIndex(w io.Writer, posts *state.Collection) {
	fmt.Fprintln(w, "Posts")
	if posts.Len() == 0 {
		fmt.Fprintln(w, "  (no posts yet)")
		return
	}
	for _, p := range posts.Posts() {
		fmt.Fprintf(w, "  %-6s %s\n", p.ID, p.Title)
	}
}

func renderPost(w io.Writer, p model.Post) {
	fmt.Fprintln(w, p.Title)
	fmt.Fprintf(w, "Categories: %s\n", strings.Join(p.Tags(), ", "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.Content)
}

func renderErrors(w io.Writer, errs model.Errors) {
	for _, field := range errs.Fields() {
		fmt.Fprintf(w, "%s: %s\n", field, errs[field])
	}
}

func renderFailure(w io.Writer, f *action.RequestFailed) {
	if f.ID != "" {
		fmt.Fprintf(w, "! %s %s failed: %s\n", f.Op, f.ID, f.Message)
		return
	}
	fmt.Fprintf(w, "! %s failed: %s\n", f.Op, f.Message)
}
