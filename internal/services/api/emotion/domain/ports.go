package domain

import "context"

// ServicePort is the interface implemented by the emotion service
type ServicePort interface {
	Predict(ctx context.Context, in TextInput) (Prediction, error)
	Debug(ctx context.Context, in TextInput) (DebugView, error)
	Normalize(ctx context.Context, in TextInput) (NormalizeOutput, error)
	Override(ctx context.Context, in TextInput) (OverrideOutput, error)
	Labels(ctx context.Context) (LabelsOutput, error)
}
