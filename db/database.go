package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tangobot/go-tangobot/config"
)

// Command is an operator-managed bot command. The bot only ever reads these;
// rows are created and edited out-of-band.
type Command struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	Command   string    `gorm:"uniqueIndex;not null;column:command"`
	Type      string    `gorm:"not null;column:type"`
	Response  string    `gorm:"column:response"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Command) TableName() string { return "commands" }

// Phrase is an exact-match chat line that elicits a canned response.
type Phrase struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	Phrase    string    `gorm:"uniqueIndex;not null;column:phrase"`
	Response  string    `gorm:"not null;column:response"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Phrase) TableName() string { return "phrases" }

// ChatLog is one persisted chat line.
type ChatLog struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	Username  string    `gorm:"index;not null;column:username"`
	Room      string    `gorm:"index;not null;column:room"`
	Message   string    `gorm:"not null;column:message"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (ChatLog) TableName() string { return "chat" }

// ChatUser is metadata about a chatter, keyed on username+room+ip.
type ChatUser struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	Username  string    `gorm:"not null;column:username;uniqueIndex:idx_users_identity"`
	Room      string    `gorm:"column:room;uniqueIndex:idx_users_identity"`
	IP        string    `gorm:"index;column:ip;uniqueIndex:idx_users_identity"`
	City      string    `gorm:"column:city"`
	Region    string    `gorm:"column:region"`
	Country   string    `gorm:"column:country_name"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ChatUser) TableName() string { return "users" }

// WeatherEmoji maps a provider weather code to a display icon.
type WeatherEmoji struct {
	ID        uint   `gorm:"primaryKey;column:id"`
	Code      int    `gorm:"not null;column:code"`
	Condition string `gorm:"not null;column:condition"`
	Icon      string `gorm:"not null;column:icon"`
	Group     string `gorm:"not null;column:group"`
}

func (WeatherEmoji) TableName() string { return "weather" }

// PollResult is the standing total for a named counter or poll.
type PollResult struct {
	ID    uint   `gorm:"primaryKey;column:id"`
	Type  string `gorm:"uniqueIndex;not null;column:type"`
	Count int    `gorm:"not null;column:count"`
}

func (PollResult) TableName() string { return "poll" }

// Database wraps the gorm handle with the narrow query surface the bot needs.
type Database struct {
	orm *gorm.DB
}

func New(cfg *config.Config) (*Database, error) {
	orm, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := orm.AutoMigrate(&Command{}, &Phrase{}, &ChatLog{}, &ChatUser{}, &WeatherEmoji{}, &PollResult{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Database{orm: orm}, nil
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.orm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetCommand looks up a registered command by token. Tokens are stored
// lower-case; callers lower-case before calling. Returns nil when absent.
func (d *Database) GetCommand(token string) (*Command, error) {
	var cmd Command
	err := d.orm.Where("command = ?", token).First(&cmd).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cmd, nil
}

// GetPhrase looks up an exact-match phrase. Returns nil when absent.
func (d *Database) GetPhrase(text string) (*Phrase, error) {
	var p Phrase
	err := d.orm.Where("phrase = ?", text).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveChatLog persists one chat line.
func (d *Database) SaveChatLog(username, room, message string) error {
	return d.orm.Create(&ChatLog{Username: username, Room: room, Message: message}).Error
}

// userIdentity is the conflict target for chatter rows: one row per
// (username, room, ip) triple, first sighting wins.
var userIdentity = clause.OnConflict{
	Columns:   []clause.Column{{Name: "username"}, {Name: "room"}, {Name: "ip"}},
	DoNothing: true,
}

// SaveUser records chatter metadata once per identity. Repeat messages from a
// known (username, room, ip) leave the existing row untouched. Usernames are
// normalized the same way the transport reports them.
func (d *Database) SaveUser(user *ChatUser) error {
	user.Username = strings.ToLower(user.Username)
	return d.orm.Clauses(userIdentity).Create(user).Error
}

// GetWeatherEmoji returns the icon row for a provider weather code, or nil.
func (d *Database) GetWeatherEmoji(code int) (*WeatherEmoji, error) {
	var w WeatherEmoji
	err := d.orm.Where("code = ?", code).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetPollTotal returns the standing total for a counter, zero when unset.
func (d *Database) GetPollTotal(pollType string) (int, error) {
	var p PollResult
	err := d.orm.Where("type = ?", pollType).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return p.Count, nil
}

// SetPollTotal records a new standing total for a counter when it beats the
// previous one.
func (d *Database) SetPollTotal(pollType string, count int) error {
	return d.orm.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}},
		DoUpdates: clause.Assignments(map[string]any{"count": count}),
	}).Create(&PollResult{Type: pollType, Count: count}).Error
}
