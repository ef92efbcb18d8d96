package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/GoArmGo/PhotoSearch/internal/di"
	"github.com/GoArmGo/PhotoSearch/internal/usecase/search"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	personalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search photos from the terminal",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "pages",
				Usage: "Number of pages to load",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "Forget the saved last query and exit",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, slogger, err := bootstrap(os.Stderr)
			if err != nil {
				return err
			}

			controller, closeAll, err := di.BuildController(ctx, cfg, slogger)
			if err != nil {
				return err
			}
			defer closeLogged(slogger, closeAll)

			if c.Bool("clear") {
				controller.Clear(ctx)
				fmt.Println(metaStyle.Render("Saved query cleared"))
				return nil
			}

			query := strings.Join(c.Args().Slice(), " ")
			if query == "" {
				// без аргументов повторяем последний сохранённый запрос
				query = controller.Snapshot().Query
			}
			if query == "" {
				return fmt.Errorf("query is required")
			}

			snap := controller.Submit(ctx, query)
			for i := 1; int64(i) < c.Int("pages") && snap.HasMore && snap.Error == nil; i++ {
				snap = controller.LoadMore(ctx)
			}

			renderSnapshot(os.Stdout, snap)
			if snap.Error != nil {
				return snap.Error
			}
			return nil
		},
	}
}

// closeLogged освобождает ресурсы и логирует ошибку закрытия
func closeLogged(logger *slog.Logger, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

// renderSnapshot выводит результаты поиска в терминал
func renderSnapshot(w io.Writer, snap search.Snapshot) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Results for %q (page %d)", snap.Query, snap.Page)))

	if snap.Error != nil {
		fmt.Fprintln(w, errorStyle.Render(snap.Error.Message))
		return
	}
	if len(snap.Results) == 0 {
		fmt.Fprintln(w, metaStyle.Render("No photos found"))
		return
	}

	for i, photo := range snap.Results {
		title := photo.AltDescription
		if title == "" {
			title = photo.ID
		}
		if photo.IsPersonal() {
			title = personalStyle.Render(title)
		}

		fmt.Fprintf(w, "%d. %s\n", i+1, title)
		byline := "by " + photo.Author.Name
		if photo.Subtitle != "" {
			byline += " · " + photo.Subtitle
		}
		fmt.Fprintln(w, "   "+metaStyle.Render(byline))
		fmt.Fprintln(w, "   "+urlStyle.Render(photo.Links.HTML))
	}

	if snap.HasMore {
		fmt.Fprintln(w, metaStyle.Render("More results available, use --pages to load them"))
	}
}
