package cli

import (
	"context"

	coreapp "comptree/internal/core/app"

	tea "github.com/charmbracelet/bubbletea"
)

func runUI(ctx context.Context, app *coreapp.App, componentFiles []string) error {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())

	app.SetUpdateHandler(func(update coreapp.Update) {
		p.Send(updateMsgFrom(update))
	})

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchErr := make(chan error, 1)
	go func() {
		err := app.Watch(watchCtx, componentFiles)
		if err != nil {
			p.Send(updateMsg{err: err})
		}
		watchErr <- err
	}()
	go func() {
		<-watchCtx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	cancel()
	if werr := <-watchErr; err == nil {
		err = werr
	}
	return err
}
