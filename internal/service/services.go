package service

import (
	"github.com/calebw/tasklist-api/internal/config"
	"github.com/calebw/tasklist-api/internal/repository"
)

type Services struct {
	Session *SessionService
	User    *UserService
	Task    *TaskService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Session: NewSessionService(repos, cfg),
		User:    NewUserService(repos),
		Task:    NewTaskService(repos, cfg),
	}
}
