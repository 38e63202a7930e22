package data

import (
	"database/sql"
	"errors"
	"time"
)

var ErrRecordNotFound = errors.New("record not found")
var ErrEditConflict = errors.New("edit conflict")

const queryTimeout = 3 * time.Second

type Models struct {
	Matches     MatchModel
	Events      EventModel
	Lineups     LineupModel
	Players     PlayerModel
	Users       UserModel
	Permissions PermissionModel
}

func NewModels(initDb *sql.DB) Models {
	return Models{
		Matches:     MatchModel{db: initDb},
		Events:      EventModel{db: initDb},
		Lineups:     LineupModel{db: initDb},
		Players:     PlayerModel{db: initDb},
		Users:       UserModel{db: initDb},
		Permissions: PermissionModel{db: initDb},
	}
}
