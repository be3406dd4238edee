package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/benz9527/xlist/playground"
	"github.com/benz9527/xlist/session"
	"github.com/benz9527/xlist/xlog"
)

const (
	challengePoints = 25
	defaultTopN     = 5
	prompt          = "xlist> "
)

var sessionUsage = []string{
	"score",
	"progress",
	"bookmark <section>",
	"unbookmark <section>",
	"bookmarks",
	"note <section> [text]",
	"quiz [question]",
	"answer <question> <choice>",
	"challenge [start|done]",
	"submit <name>",
	"top [n]",
	"help",
	"quit",
}

type replParams struct {
	fx.In

	Playground  *playground.Playground
	Session     *session.Session
	Quiz        *session.Quiz
	Leaderboard *session.Leaderboard
	Challenge   *session.Challenge
	Logger      xlog.XLogger
}

type repl struct {
	pg        *playground.Playground
	sess      *session.Session
	quiz      *session.Quiz
	board     *session.Leaderboard
	challenge *session.Challenge
	logger    xlog.XLogger
}

func newREPL(p replParams) *repl {
	return &repl{
		pg:        p.Playground,
		sess:      p.Session,
		quiz:      p.Quiz,
		board:     p.Leaderboard,
		challenge: p.Challenge,
		logger:    p.Logger,
	}
}

func runREPL(ctx context.Context, flags *cliFlags, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var r *repl
	stop, err := startApp(ctx, replModule(flags), fx.Populate(&r))
	if err != nil {
		return err
	}
	defer func() { _ = stop() }()
	return r.Run(ctx, in, out)
}

// Run reads commands line by line until quit or the end of input.
func (r *repl) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx = context.WithValue(ctx, xlog.ContextKey(sessionIDContextKey), r.sess.ID())
	fmt.Fprintf(out, "session %s, %s list, type help to list the commands\n", r.sess.ID(), r.pg.Variant())

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, prompt)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "quit" || line == "exit":
			return nil
		default:
			if err := r.handle(ctx, line, out); err != nil {
				r.logger.WarnContext(ctx, "repl command failed", zap.String("line", line), zap.Error(err))
				fmt.Fprintln(out, "error:", err)
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(out, prompt)
	}
	return scanner.Err()
}

func (r *repl) handle(ctx context.Context, line string, out io.Writer) error {
	fields := strings.Fields(line)
	args := fields[1:]
	switch strings.ToLower(fields[0]) {
	case "help":
		for _, usage := range append(playground.Usage(), sessionUsage...) {
			fmt.Fprintln(out, "  "+usage)
		}
	case "score":
		score, err := r.sess.Score(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "score=%d\n", score)
	case "progress":
		progress, err := r.sess.Progress(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "progress: %s\n", strings.Join(progress, ", "))
	case "bookmark":
		if len(args) != 1 {
			return playground.ErrBadArgument
		}
		return r.sess.Bookmark(ctx, args[0])
	case "unbookmark":
		if len(args) != 1 {
			return playground.ErrBadArgument
		}
		return r.sess.Unbookmark(ctx, args[0])
	case "bookmarks":
		bookmarks, err := r.sess.Bookmarks(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "bookmarks: %s\n", strings.Join(bookmarks, ", "))
	case "note":
		return r.note(ctx, args, out)
	case "quiz":
		return r.showQuestion(ctx, args, out)
	case "answer":
		return r.answer(ctx, args, out)
	case "challenge":
		return r.runChallenge(ctx, args, out)
	case "submit":
		if len(args) != 1 {
			return playground.ErrBadArgument
		}
		score, err := r.sess.Score(ctx)
		if err != nil {
			return err
		}
		entry, err := r.board.Submit(ctx, args[0], score)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s best=%d\n", entry.Name, entry.Score)
	case "top":
		n := defaultTopN
		if len(args) > 0 {
			var err error
			if n, err = strconv.Atoi(args[0]); err != nil {
				return playground.ErrBadArgument
			}
		}
		entries, err := r.board.Top(ctx, n)
		if err != nil {
			return err
		}
		for i, e := range entries {
			fmt.Fprintf(out, "%d. %s %d\n", i+1, e.Name, e.Score)
		}
	default:
		snap := r.pg.Exec(ctx, line)
		fmt.Fprintln(out, snap.Render())
		fmt.Fprintln(out, snap.Message())
	}
	return nil
}

func (r *repl) note(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return playground.ErrBadArgument
	}
	if len(args) > 1 {
		return r.sess.SetNote(ctx, args[0], strings.Join(args[1:], " "))
	}
	note, err := r.sess.Note(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", args[0], note)
	return nil
}

func (r *repl) showQuestion(ctx context.Context, args []string, out io.Writer) error {
	switch len(args) {
	case 0:
		answered, correct, err := r.quiz.Answered(ctx, r.sess)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d questions, answered=%d correct=%d\n", r.quiz.Len(), answered, correct)
		return nil
	case 1:
	default:
		return playground.ErrBadArgument
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return playground.ErrBadArgument
	}
	q, err := r.quiz.Question(idx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Q%d. %s\n", idx, q.Prompt)
	for i, choice := range q.Choices {
		fmt.Fprintf(out, "  %d) %s\n", i, choice)
	}
	return nil
}

func (r *repl) answer(ctx context.Context, args []string, out io.Writer) error {
	if len(args) != 2 {
		return playground.ErrBadArgument
	}
	idx, err1 := strconv.Atoi(args[0])
	choice, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return playground.ErrBadArgument
	}
	correct, err := r.quiz.Answer(ctx, r.sess, idx, choice)
	if err != nil {
		return err
	}
	if correct {
		fmt.Fprintln(out, "correct")
	} else {
		fmt.Fprintln(out, "wrong")
	}
	return nil
}

func (r *repl) runChallenge(ctx context.Context, args []string, out io.Writer) error {
	now := r.sess.Now()
	action := ""
	if len(args) > 0 {
		action = args[0]
	}
	switch action {
	case "start":
		r.challenge.Start(now)
		fmt.Fprintf(out, "challenge started, %s left\n", r.challenge.Remaining(now))
	case "done":
		score, err := r.challenge.Complete(ctx, r.sess, now)
		if errors.Is(err, session.ErrChallengeExpired) {
			fmt.Fprintln(out, "time is up")
			return nil
		} else if err != nil {
			return err
		}
		fmt.Fprintf(out, "challenge completed, score=%d\n", score)
	case "":
		if !r.challenge.Started() {
			fmt.Fprintf(out, "challenge of %s, type challenge start\n", r.challenge.Duration())
			return nil
		}
		fmt.Fprintf(out, "%s left\n", r.challenge.Remaining(now))
	default:
		return playground.ErrBadArgument
	}
	return nil
}
