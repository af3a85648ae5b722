package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"scribe/internal/config"
	"scribe/internal/diff"
	"scribe/internal/session"
)

// runLoop drives the interactive editing loop: bare lines are dispatched to
// the AI collaborator, slash commands drive the local state machine.
func runLoop(ctx context.Context, sess *session.Session, cfg *config.Config) error {
	fmt.Println("scribe - type an instruction, or /help for commands")
	renderDocument(sess)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt(sess))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := handleCommand(ctx, sess, line); quit {
				return nil
			}
			continue
		}

		dispatch(ctx, sess, cfg, line)
	}
}

func prompt(sess *session.Session) string {
	switch {
	case sess.Pending() != nil:
		return "[review /confirm or /reject] > "
	case sess.Clarifying():
		return "[clarifying] > "
	case sess.OutOfSync():
		return "[out of sync] > "
	default:
		return "> "
	}
}

func dispatch(ctx context.Context, sess *session.Session, cfg *config.Config, utterance string) {
	cctx, cancel := context.WithTimeout(ctx, cfg.LLM.Timeout)
	defer cancel()

	fmt.Println("processing...")
	if err := sess.Dispatch(cctx, utterance); err != nil {
		// Non-blocking: the latch is already released, retry is immediate.
		fmt.Printf("collaborator error: %v\n", err)
		return
	}

	if p := sess.Pending(); p != nil {
		renderSuggestion(p.Original, p.Proposed)
		return
	}
	if sess.Clarifying() {
		turns := sess.Turns()
		fmt.Printf("? %s\n", turns[len(turns)-1].Text)
		return
	}
	renderDocument(sess)
}

func handleCommand(ctx context.Context, sess *session.Session, line string) (quit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/q", "/exit":
		return true
	case "/help":
		printHelp()
	case "/blocks":
		renderDocument(sess)
	case "/undo":
		if !sess.Undo() {
			fmt.Println("nothing to undo")
		} else {
			renderDocument(sess)
		}
	case "/redo":
		if !sess.Redo() {
			fmt.Println("nothing to redo")
		} else {
			renderDocument(sess)
		}
	case "/confirm":
		if err := sess.Confirm(); err != nil {
			fmt.Println(err)
		} else {
			renderDocument(sess)
		}
	case "/reject":
		if err := sess.Reject(); err != nil {
			fmt.Println(err)
		}
	case "/clear":
		sess.ClearConversation()
		fmt.Println("clarification dropped")
	case "/focus":
		if len(fields) < 2 {
			fmt.Println("usage: /focus <block number>")
			return false
		}
		focusByNumber(sess, fields[1])
	case "/blur":
		sess.Blur()
		fmt.Println("focus cleared")
	case "/save":
		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := sess.SaveNow(sctx); err != nil {
			fmt.Printf("save failed: %v\n", err)
		} else {
			fmt.Println("saved")
		}
	default:
		fmt.Printf("unknown command %s (try /help)\n", fields[0])
	}
	return false
}

func focusByNumber(sess *session.Session, arg string) {
	n, err := strconv.Atoi(arg)
	blocks := sess.Blocks()
	if err != nil || n < 1 || n > len(blocks) {
		fmt.Printf("no block %s\n", arg)
		return
	}
	sess.Focus(blocks[n-1].ID)
	fmt.Printf("focused block %d\n", n)
}

func renderDocument(sess *session.Session) {
	focused := sess.FocusedBlock()
	for i, b := range sess.Blocks() {
		marker := " "
		if b.ID == focused {
			marker = "*"
		}
		content := b.Content
		if b.IsEmpty {
			content = "(empty)"
		}
		fmt.Printf("%s[%d] %s\n", marker, i+1, strings.ReplaceAll(content, "\n", "\n    "))
	}
}

// renderSuggestion prints the staged rewrite with inline change markers.
func renderSuggestion(original, proposed string) {
	fmt.Println("staged rewrite (confirm with /confirm, discard with /reject):")
	for _, d := range diff.DefaultEngine.Diffs(original, proposed) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			fmt.Printf("{+%s+}", d.Text)
		case diffmatchpatch.DiffDelete:
			fmt.Printf("[-%s-]", d.Text)
		default:
			fmt.Print(d.Text)
		}
	}
	fmt.Println()
}

func printHelp() {
	fmt.Print(`commands:
  /blocks          show the document
  /focus <n>       focus block n (AI edits target it)
  /blur            clear focus
  /undo /redo      step through history
  /confirm         apply the staged rewrite
  /reject          discard the staged rewrite
  /clear           drop an open clarification exchange
  /save            force a save now
  /quit            exit
anything else is sent to the AI collaborator as an instruction
`)
}
