package observability

// Attribute, span and metric names shared by every component. Use these
// rather than string literals so that log queries and dashboards line up.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the backend name (e.g. "openai", "gemini", "genai").
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g. "gemini-2.5-flash").
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL.
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the response identifier returned by the provider.
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMFinishReason is why generation stopped.
	AttrLLMFinishReason = "llm.finish_reason"

	AttrLLMTemperature = "llm.temperature"

	AttrLLMMaxTokens = "llm.max_tokens" // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Token Usage Attributes ---

const (
	AttrLLMTokensPrompt     = "llm.tokens.prompt"     // #nosec G101 -- Not a credential, token refers to LLM tokens
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101 -- Not a credential, token refers to LLM tokens
	AttrLLMTokensTotal      = "llm.tokens.total"      // #nosec G101 -- Not a credential, token refers to LLM tokens
)

// --- Recovery Attributes ---

const (
	// AttrRecoveryStrategy is the name of a recovery strategy.
	AttrRecoveryStrategy = "recovery.strategy"

	// AttrRecoveryStage is where a candidate was rejected: parse, validate or integrity.
	AttrRecoveryStage = "recovery.stage"

	// AttrRecoveryOutcome is "accepted" or the rejection stage.
	AttrRecoveryOutcome = "recovery.outcome"

	// AttrRecoveryAttempts is the number of strategies tried.
	AttrRecoveryAttempts = "recovery.attempts"
)

// --- Generation Attributes ---

const (
	// AttrGenerationAttempt is the 1-based attempt number.
	AttrGenerationAttempt = "generation.attempt"

	// AttrGenerationMaxAttempts is MaxRetries+1.
	AttrGenerationMaxAttempts = "generation.max_attempts"

	// AttrGenerationFailure is the failure kind of an attempt: transport, empty or recovery.
	AttrGenerationFailure = "generation.failure"

	// AttrGenerationRawOutput is a truncated copy of the model output.
	AttrGenerationRawOutput = "generation.raw_output"
)

// --- Blueprint Attributes ---

const (
	AttrBlueprintProject = "blueprint.project"
	AttrBlueprintNodes   = "blueprint.nodes"
	AttrBlueprintEdges   = "blueprint.edges"
	AttrBlueprintIssues  = "blueprint.issues"
)

// --- Request/Response Attributes ---

const (
	// AttrRequestID is the id assigned to an inbound planning request.
	AttrRequestID = "request.id"

	// AttrRequestMessagesCount is the number of messages sent to the model.
	AttrRequestMessagesCount = "request.messages_count"

	// AttrRequestRequirementsLength is the size of the user requirements in bytes.
	AttrRequestRequirementsLength = "request.requirements_length"

	// AttrResponseContent is a preview of the model response.
	AttrResponseContent = "response.content"
)

// --- HTTP Attributes ---

const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPRoute            = "http.route"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPURL              = "http.url"
	AttrHTTPRequestBodySize  = "http.request.body.size"
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	AttrError             = "error"
	AttrErrorType         = "error.type"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanClientComplete covers one chat completion through the client chain.
	SpanClientComplete = "client.complete"

	// SpanLLMRequest covers the provider's HTTP or SDK call.
	SpanLLMRequest = "llm.request"

	// SpanGenerate covers a whole generation, all attempts included.
	SpanGenerate = "blueprint.generate"

	// SpanRecover covers one run of the recovery pipeline.
	SpanRecover = "blueprint.recover"

	// SpanPlanningRequest covers one planning service call.
	SpanPlanningRequest = "planning.request"
)

// --- Event Names ---

const (
	EventAttemptFailed   = "generation.attempt.failed"
	EventRetryScheduled  = "generation.retry.scheduled"
	EventStrategyApplied = "recovery.strategy.applied"
)

// --- Metric Names ---

const (
	// MetricClientRequestCount counts completions, labelled by status and model.
	MetricClientRequestCount = "blueprint.client.request.count"

	// MetricClientRequestDuration is the completion latency in seconds.
	MetricClientRequestDuration = "blueprint.client.request.duration"

	MetricClientTokensPrompt     = "blueprint.client.tokens.prompt"     // #nosec G101 -- Not a credential
	MetricClientTokensCompletion = "blueprint.client.tokens.completion" // #nosec G101 -- Not a credential

	// MetricRecoveryStrategy counts strategy outcomes, labelled by strategy and outcome.
	MetricRecoveryStrategy = "blueprint.recovery.strategy"

	// MetricGenerationAttempts counts generation attempts, labelled by status.
	MetricGenerationAttempts = "blueprint.generation.attempts"

	// MetricGenerationDuration is the end-to-end generation latency in seconds.
	MetricGenerationDuration = "blueprint.generation.duration"

	// MetricHTTPRequests counts API requests, labelled by route and status code.
	MetricHTTPRequests = "blueprint.http.requests"
)
