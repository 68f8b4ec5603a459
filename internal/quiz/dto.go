package quiz

import "github.com/google/uuid"

type CreateQuestionDTO struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"omitempty,dive,required"`
}

type CreateOptionDTO struct {
	Option string `json:"option" validate:"required"`
}

type AnswerDTO struct {
	QuestionID uuid.UUID `json:"question_id" validate:"required"`
	OptionID   uuid.UUID `json:"chosen_option_id" validate:"required"`
}

type OptionStats struct {
	OptionID   uuid.UUID `json:"option_id"`
	Option     string    `json:"option"`
	Percentage int       `json:"percentage"`
}

type QuestionStats struct {
	QuestionID uuid.UUID     `json:"question_id"`
	Question   string        `json:"question"`
	Options    []OptionStats `json:"options"`
}

type BookQuestionsResponse struct {
	BookID    uuid.UUID       `json:"book_id"`
	Questions []QuestionStats `json:"data"`
}

type Chooser struct {
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

type OptionChoosers struct {
	OptionID uuid.UUID `json:"option_id"`
	Option   string    `json:"option"`
	Users    []Chooser `json:"users"`
}

type QuestionDetail struct {
	Question struct {
		ID       uuid.UUID `json:"id"`
		Question string    `json:"question"`
	} `json:"question"`
	Options []OptionChoosers `json:"options"`
}

type ProgressResponse struct {
	BookID   uuid.UUID `json:"book_id"`
	Answered int64     `json:"answered"`
	Total    int64     `json:"total"`
	Read     bool      `json:"read"`
}
