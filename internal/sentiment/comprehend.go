package sentiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"
	"github.com/aws/aws-sdk-go-v2/service/translate"
)

// comprehendAPI and translateAPI are the subsets of the AWS clients in use.
type comprehendAPI interface {
	DetectDominantLanguage(ctx context.Context, in *comprehend.DetectDominantLanguageInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectDominantLanguageOutput, error)
	DetectSentiment(ctx context.Context, in *comprehend.DetectSentimentInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectSentimentOutput, error)
}

type translateAPI interface {
	TranslateText(ctx context.Context, in *translate.TranslateTextInput, optFns ...func(*translate.Options)) (*translate.TranslateTextOutput, error)
}

// Comprehend classifies text with AWS Comprehend, translating non-English
// input to English with AWS Translate first.
type Comprehend struct {
	comprehend comprehendAPI
	translate  translateAPI
}

var _ Classifier = (*Comprehend)(nil)

// NewComprehend loads the default AWS credential chain for region.
func NewComprehend(ctx context.Context, region string) (*Comprehend, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Comprehend{
		comprehend: comprehend.NewFromConfig(cfg),
		translate:  translate.NewFromConfig(cfg),
	}, nil
}

// Classify implements Classifier.
func (c *Comprehend) Classify(ctx context.Context, text string) (Sentiment, error) {
	english, err := c.toEnglish(ctx, text)
	if err != nil {
		return Neutral, err
	}
	out, err := c.comprehend.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
		Text:         aws.String(english),
		LanguageCode: types.LanguageCodeEn,
	})
	if err != nil {
		return Neutral, fmt.Errorf("detect sentiment: %w", err)
	}
	switch out.Sentiment {
	case types.SentimentTypePositive:
		return Positive, nil
	case types.SentimentTypeNegative:
		return Negative, nil
	case types.SentimentTypeMixed:
		return Mixed, nil
	default:
		return Neutral, nil
	}
}

func (c *Comprehend) toEnglish(ctx context.Context, text string) (string, error) {
	lang, err := c.comprehend.DetectDominantLanguage(ctx, &comprehend.DetectDominantLanguageInput{
		Text: aws.String(text),
	})
	if err != nil {
		return "", fmt.Errorf("detect language: %w", err)
	}
	if len(lang.Languages) == 0 || lang.Languages[0].LanguageCode == nil {
		return "", errors.New("detect language: no result")
	}
	code := aws.ToString(lang.Languages[0].LanguageCode)
	if code == "en" {
		return text, nil
	}
	tr, err := c.translate.TranslateText(ctx, &translate.TranslateTextInput{
		Text:               aws.String(text),
		SourceLanguageCode: aws.String(code),
		TargetLanguageCode: aws.String("en"),
	})
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return aws.ToString(tr.TranslatedText), nil
}
