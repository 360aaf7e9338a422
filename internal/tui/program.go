package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"go-todo/internal/domain/entity"
	"go-todo/internal/domain/gateway/db"
	"go-todo/internal/domain/gateway/notify"
	"go-todo/internal/domain/model"
	"go-todo/internal/domain/usecase/todosync"
)

// Run starts the terminal client over gateway and blocks until the user quits
func Run(ctx context.Context, gateway db.TodoGateway, identity entity.Identity) error {
	var program *tea.Program

	notifier := notify.NotifierFunc(func(ctx context.Context, notification model.Notification) {
		program.Send(notificationMsg(notification))
	})
	synchronizer := todosync.NewTodoSyncUseCase(gateway, notifier)

	program = tea.NewProgram(NewModel(ctx, synchronizer, identity), tea.WithAltScreen(), tea.WithContext(ctx))
	unsubscribe := synchronizer.Subscribe(func(state todosync.State) {
		program.Send(stateMsg(state))
	})
	defer unsubscribe()

	_, err := program.Run()
	return err
}
