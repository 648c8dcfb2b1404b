package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jmcdice/irssai/pkg/chatbot"
	"github.com/jmcdice/irssai/pkg/config"
	"github.com/jmcdice/irssai/pkg/display"
)

const helpText = `Commands:
  /reset   start every conversation over
  /bots    list the active bots
  /help    show this help
  /quit    exit
Anything else is sent to every active bot.
`

type session struct {
	bots      []*chatbot.Bot
	formatter display.Formatter
	out       io.Writer
	log       zerolog.Logger
}

func chat(ctx context.Context, opts options, stdin io.Reader, stdout, stderr io.Writer, tty bool) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := cfg.Logging.NewLogger(stderr)
	if err != nil {
		return err
	}

	botConfigs, err := cfg.SelectBots(opts.bots)
	if err != nil {
		return err
	}

	color := tty && !opts.noColor
	if cfg.Color != nil {
		color = *cfg.Color && !opts.noColor
	}
	s := &session{
		formatter: display.Formatter{Color: color},
		out:       stdout,
		log:       log,
	}
	defer s.close()

	for _, botCfg := range botConfigs {
		bot, err := chatbot.New(botCfg, log, chatbot.WithFetchConfig(&cfg.Fetch))
		if err != nil {
			return err
		}
		s.bots = append(s.bots, bot)
		log.Info().
			Str("bot", bot.Name()).
			Str("model", botCfg.Model).
			Bool("web_content", botCfg.AugmentWithWebContent).
			Msg("Bot ready")
	}

	return s.loop(ctx, stdin)
}

func (s *session) close() {
	for _, bot := range s.bots {
		if err := bot.Close(); err != nil {
			s.log.Warn().Err(err).Str("bot", bot.Name()).Msg("Failed to close bot")
		}
	}
}

func (s *session) loop(ctx context.Context, stdin io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdin)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if quit := s.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// handle processes one input line and reports whether the user asked to quit.
func (s *session) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return false
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprint(s.out, helpText)
		return false
	case "/reset":
		for _, bot := range s.bots {
			bot.Reset()
		}
		fmt.Fprintln(s.out, "Conversations reset.")
		return false
	case "/bots":
		for _, bot := range s.bots {
			fmt.Fprint(s.out, s.formatter.Format(bot.Identity(), bot.Config().Model))
		}
		return false
	}

	for _, bot := range s.bots {
		if ctx.Err() != nil {
			return true
		}
		reply := bot.Turn(ctx, line)
		fmt.Fprint(s.out, s.formatter.Format(bot.Identity(), reply))
	}
	return false
}
