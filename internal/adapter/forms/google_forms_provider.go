package forms

import (
	"context"
	"fmt"

	"autoquiz/internal/domain"

	"go.uber.org/zap"
	formsapi "google.golang.org/api/forms/v1"
	"google.golang.org/api/option"
)

// GoogleFormsProvider implements domain.FormProvider against the Google Forms API.
type GoogleFormsProvider struct {
	svc    *formsapi.Service
	logger *zap.Logger
}

// NewGoogleFormsProvider creates a provider authenticated with a service
// account credentials file.
func NewGoogleFormsProvider(ctx context.Context, credentialsFile string, logger *zap.Logger) (domain.FormProvider, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("google credentials file cannot be empty")
	}

	svc, err := formsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(formsapi.FormsBodyScope, formsapi.FormsBodyReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Forms service: %w", err)
	}

	return &GoogleFormsProvider{svc: svc, logger: logger}, nil
}

// CreateForm creates a quiz-mode Google Form with one RADIO choice item per
// question, graded against the question's correct option.
func (p *GoogleFormsProvider) CreateForm(ctx context.Context, title, description string, questions []domain.Question) (string, string, error) {
	created, err := p.svc.Forms.Create(&formsapi.Form{
		Info: &formsapi.Info{
			Title:       title,
			Description: description,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", "", domain.NewProviderError("google forms", err)
	}

	formID := created.FormId
	formURL := fmt.Sprintf("https://docs.google.com/forms/d/%s/edit", formID)

	// The form must be flipped into quiz mode before graded items are added.
	_, err = p.svc.Forms.BatchUpdate(formID, &formsapi.BatchUpdateFormRequest{
		Requests: []*formsapi.Request{
			{
				UpdateSettings: &formsapi.UpdateSettingsRequest{
					Settings: &formsapi.FormSettings{
						QuizSettings: &formsapi.QuizSettings{IsQuiz: true},
					},
					UpdateMask: "quizSettings.isQuiz",
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", "", domain.NewProviderError("google forms", err)
	}

	requests := buildItemRequests(questions)
	if len(requests) > 0 {
		_, err = p.svc.Forms.BatchUpdate(formID, &formsapi.BatchUpdateFormRequest{
			Requests: requests,
		}).Context(ctx).Do()
		if err != nil {
			return "", "", domain.NewProviderError("google forms", err)
		}
	}

	p.logger.Info("Created Google Form",
		zap.String("form_id", formID),
		zap.Int("question_count", len(questions)),
	)
	return formID, formURL, nil
}

// GetForm returns the form's single-select question items in display order.
func (p *GoogleFormsProvider) GetForm(ctx context.Context, formID string) ([]domain.FormQuestion, error) {
	form, err := p.svc.Forms.Get(formID).Context(ctx).Do()
	if err != nil {
		return nil, domain.NewProviderError("google forms", err)
	}
	return mapFormItems(form.Items), nil
}

func buildItemRequests(questions []domain.Question) []*formsapi.Request {
	requests := make([]*formsapi.Request, 0, len(questions))
	for idx, question := range questions {
		options := make([]*formsapi.Option, 0, len(question.Options))
		for _, value := range question.Options {
			options = append(options, &formsapi.Option{Value: value})
		}

		requests = append(requests, &formsapi.Request{
			CreateItem: &formsapi.CreateItemRequest{
				Item: &formsapi.Item{
					Title: question.Text,
					QuestionItem: &formsapi.QuestionItem{
						Question: &formsapi.Question{
							Required: true,
							Grading: &formsapi.Grading{
								PointValue: 1,
								CorrectAnswers: &formsapi.CorrectAnswers{
									Answers: []*formsapi.CorrectAnswer{
										{Value: question.Options[question.CorrectAnswerIndex]},
									},
								},
								WhenRight: &formsapi.Feedback{Text: "Correct"},
								WhenWrong: &formsapi.Feedback{Text: "Incorrect"},
							},
							ChoiceQuestion: &formsapi.ChoiceQuestion{
								Type:    "RADIO",
								Options: options,
								Shuffle: true,
							},
						},
					},
				},
				Location: &formsapi.Location{
					Index:           int64(idx),
					ForceSendFields: []string{"Index"},
				},
			},
		})
	}
	return requests
}

// mapFormItems converts raw form items into FormQuestions. Items without a
// single-select choice question are skipped. The correct answer index is
// UnknownAnswerIndex when no grading metadata matches an option.
func mapFormItems(items []*formsapi.Item) []domain.FormQuestion {
	questions := make([]domain.FormQuestion, 0, len(items))
	for _, item := range items {
		if item == nil || item.QuestionItem == nil || item.QuestionItem.Question == nil {
			continue
		}
		choice := item.QuestionItem.Question.ChoiceQuestion
		if choice == nil {
			continue
		}

		options := make([]string, 0, len(choice.Options))
		for _, opt := range choice.Options {
			if opt != nil {
				options = append(options, opt.Value)
			}
		}

		correctIndex := domain.UnknownAnswerIndex
		if grading := item.QuestionItem.Question.Grading; grading != nil && grading.CorrectAnswers != nil {
			for _, answer := range grading.CorrectAnswers.Answers {
				if answer == nil {
					continue
				}
				for i, optValue := range options {
					if optValue == answer.Value {
						correctIndex = i
						break
					}
				}
				if correctIndex != domain.UnknownAnswerIndex {
					break
				}
			}
		}

		questions = append(questions, domain.FormQuestion{
			Text:               item.Title,
			Options:            options,
			CorrectAnswerIndex: correctIndex,
		})
	}
	return questions
}
