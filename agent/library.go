package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Library answers the function calls of a model.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// Function is a tool a model can call.
type Function interface {
	Declaration() *genai.FunctionDeclaration
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// NewLibrary dispatches each call to the function of the same name.
func NewLibrary[T Function](functions []T) Library {
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		for _, f := range functions {
			if f.Declaration().Name == call.Name {
				return f.Call(ctx, call.ID, call.Args)
			}
		}
		return respond(call.ID, call.Name, "", fmt.Errorf("unknown function %s", call.Name))
	}
}

// NewDeclarations returns the declarations of functions.
func NewDeclarations[T Function](functions []T) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, f := range functions {
		result = append(result, f.Declaration())
	}
	return result
}

// respond builds the response of a call: the output, or the error message.
func respond(id, name, output string, err error) *genai.FunctionResponse {
	if err != nil {
		return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"error": err.Error()}}
	}
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": output}}
}

// stringArg returns the string argument key, def when it is absent.
func stringArg(args map[string]any, key, def string) (string, error) {
	v, ok := args[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return def, fmt.Errorf("argument %q is not a string as expected but %T", key, v)
	}
	return s, nil
}
