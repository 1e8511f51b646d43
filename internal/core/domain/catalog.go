package domain

import "strings"

// CategoryGroup clusters idea categories for display and reporting.
type CategoryGroup string

const (
	GroupLOSTech        CategoryGroup = "los-tech"
	GroupPipelineOps    CategoryGroup = "pipeline-ops"
	GroupMarketingCRM   CategoryGroup = "marketing-crm"
	GroupProductsGrowth CategoryGroup = "products-growth"
)

// Category is one entry of the fixed idea-category catalog. Description is the
// one-line phrase used to bias LLM phrasing when the category is selected.
type Category struct {
	ID          string
	Label       string
	Description string
	Group       CategoryGroup
}

// Modifier is an optional instruction the user can attach to a draft.
// Instruction is the single-line requirement phrase appended to the prompt.
type Modifier struct {
	ID          string
	Label       string
	Instruction string
}

type DetailLevel string

const (
	DetailConcise       DetailLevel = "concise"
	DetailBalanced      DetailLevel = "balanced"
	DetailComprehensive DetailLevel = "comprehensive"
)

type OutputFormat string

const (
	FormatStructured     OutputFormat = "structured"
	FormatConversational OutputFormat = "conversational"
	FormatBulletPoints   OutputFormat = "bullet-points"
)

// Catalog is the immutable category/modifier lookup shared by every flow.
// Built once at process start; read-only afterwards, so no synchronization.
type Catalog struct {
	categories map[string]Category
	modifiers  map[string]Modifier
}

func NewCatalog() *Catalog {
	c := &Catalog{
		categories: make(map[string]Category, len(categoryTable)),
		modifiers:  make(map[string]Modifier, len(modifierTable)),
	}
	for _, cat := range categoryTable {
		c.categories[cat.ID] = cat
	}
	for _, mod := range modifierTable {
		c.modifiers[mod.ID] = mod
	}
	return c
}

// Describe returns the LLM-bias phrase for a category id. Unknown ids degrade
// to "general" rather than erroring.
func (c *Catalog) Describe(id string) string {
	if cat, ok := c.categories[id]; ok {
		return cat.Description
	}
	return "general"
}

// LabelOf returns the display label for a category id. Ids the catalog does
// not know get a deterministic title-casing of the identifier itself.
func (c *Catalog) LabelOf(id string) string {
	if cat, ok := c.categories[id]; ok {
		return cat.Label
	}
	return TitleCaseID(id)
}

// ModifierInstruction resolves a modifier id to its requirement phrase.
// Unresolved ids return "" and are silently dropped by callers.
func (c *Catalog) ModifierInstruction(id string) string {
	if mod, ok := c.modifiers[id]; ok {
		return mod.Instruction
	}
	return ""
}

// Category returns the catalog entry and whether the id is known.
func (c *Catalog) Category(id string) (Category, bool) {
	cat, ok := c.categories[id]
	return cat, ok
}

// Categories returns all catalog entries in their canonical order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(categoryTable))
	copy(out, categoryTable)
	return out
}

// DetailInstruction maps a detail level to its instruction phrase.
// Unknown or missing values default to balanced.
func DetailInstruction(level DetailLevel) string {
	switch level {
	case DetailConcise:
		return "Keep the idea brief and focused."
	case DetailComprehensive:
		return "Be thorough. Cover problem, solution, impact, risks, and implementation."
	default:
		return "Provide moderate detail — enough to evaluate."
	}
}

// FormatInstruction maps an output format to its instruction phrase.
// Unknown or missing values default to structured.
func FormatInstruction(format OutputFormat) string {
	switch format {
	case FormatConversational:
		return "Write naturally as if pitching to a colleague."
	case FormatBulletPoints:
		return "Use bullet points for easy scanning."
	default:
		return "Use clear markdown headers to organize into sections."
	}
}

// TitleCaseID turns an identifier like "doc-mgmt" into "Doc Mgmt": separators
// become spaces and each word is capitalized.
func TitleCaseID(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var categoryTable = []Category{
	// LOS & Tech
	{ID: "los-enhancement", Label: "LOS Enhancement", Description: "improving the Loan Origination System", Group: GroupLOSTech},
	{ID: "automation", Label: "Automation", Description: "automating manual tasks and processes", Group: GroupLOSTech},
	{ID: "macro-script", Label: "Macro / Script", Description: "custom macros, scripts, and shortcuts", Group: GroupLOSTech},
	{ID: "integration", Label: "Integration", Description: "connecting systems, tools, and data", Group: GroupLOSTech},
	{ID: "dashboard", Label: "Dashboard", Description: "new reports, dashboards, and analytics", Group: GroupLOSTech},
	{ID: "ui-ux", Label: "UI / UX Fix", Description: "interface and usability improvements", Group: GroupLOSTech},
	{ID: "doc-mgmt", Label: "Doc Management", Description: "document handling, e-sign, and storage", Group: GroupLOSTech},
	{ID: "mobile", Label: "Mobile App", Description: "mobile origination features", Group: GroupLOSTech},
	{ID: "ai-feature", Label: "AI Feature", Description: "AI-powered tools for underwriting or analysis", Group: GroupLOSTech},
	{ID: "data-quality", Label: "Data Quality", Description: "data accuracy and validation", Group: GroupLOSTech},
	{ID: "security", Label: "Security", Description: "security, permissions, and access control", Group: GroupLOSTech},
	{ID: "api-webhook", Label: "API / Webhook", Description: "system connectivity and notifications", Group: GroupLOSTech},

	// Pipeline & Ops
	{ID: "pipeline-view", Label: "Pipeline View", Description: "pipeline visualization and filtering", Group: GroupPipelineOps},
	{ID: "workflow", Label: "Workflow", Description: "loan workflow improvements", Group: GroupPipelineOps},
	{ID: "bottleneck", Label: "Bottleneck Fix", Description: "fixing processing delays", Group: GroupPipelineOps},
	{ID: "milestone", Label: "Milestones", Description: "milestone and status tracking", Group: GroupPipelineOps},
	{ID: "task-mgmt", Label: "Task Mgmt", Description: "task assignment and follow-ups", Group: GroupPipelineOps},
	{ID: "handoff", Label: "Handoff", Description: "team-to-team handoff improvements", Group: GroupPipelineOps},
	{ID: "qc-audit", Label: "QC / Audit", Description: "quality control and audit improvements", Group: GroupPipelineOps},
	{ID: "closing", Label: "Closing", Description: "closing and funding improvements", Group: GroupPipelineOps},
	{ID: "rate-lock", Label: "Rate Lock", Description: "rate lock workflow and alerts", Group: GroupPipelineOps},
	{ID: "conditions", Label: "Conditions", Description: "condition tracking and clearing", Group: GroupPipelineOps},
	{ID: "exceptions", Label: "Exceptions", Description: "exception handling and escalation", Group: GroupPipelineOps},
	{ID: "sla", Label: "SLA / Turn Time", Description: "turn time targets and monitoring", Group: GroupPipelineOps},

	// Marketing & CRM
	{ID: "lead-gen", Label: "Lead Gen", Description: "lead generation and capture", Group: GroupMarketingCRM},
	{ID: "crm-feature", Label: "CRM Feature", Description: "CRM functionality improvements", Group: GroupMarketingCRM},
	{ID: "email-campaign", Label: "Email Campaign", Description: "email marketing and drip campaigns", Group: GroupMarketingCRM},
	{ID: "social-media", Label: "Social Media", Description: "social media content and strategy", Group: GroupMarketingCRM},
	{ID: "borrower-portal", Label: "Borrower Portal", Description: "borrower portal and self-service", Group: GroupMarketingCRM},
	{ID: "referral", Label: "Referrals", Description: "referral and partner programs", Group: GroupMarketingCRM},
	{ID: "brand-content", Label: "Brand / Content", Description: "branding, content, and collateral", Group: GroupMarketingCRM},
	{ID: "co-marketing", Label: "Co-Marketing", Description: "realtor and partner co-marketing", Group: GroupMarketingCRM},
	{ID: "reviews", Label: "Reviews", Description: "reviews, ratings, and testimonials", Group: GroupMarketingCRM},
	{ID: "pre-approval", Label: "Pre-Approval", Description: "pre-approval and pre-qual tools", Group: GroupMarketingCRM},
	{ID: "listing-alerts", Label: "Listing Alerts", Description: "property listing and market alerts", Group: GroupMarketingCRM},
	{ID: "retention", Label: "Retention", Description: "post-close nurture and retention", Group: GroupMarketingCRM},

	// Products & Growth
	{ID: "new-product", Label: "New Product", Description: "new loan products or programs", Group: GroupProductsGrowth},
	{ID: "pricing", Label: "Pricing", Description: "pricing engine and compensation", Group: GroupProductsGrowth},
	{ID: "guidelines", Label: "Guidelines", Description: "underwriting guideline improvements", Group: GroupProductsGrowth},
	{ID: "compliance", Label: "Compliance", Description: "regulatory compliance improvements", Group: GroupProductsGrowth},
	{ID: "training", Label: "Training", Description: "training and education", Group: GroupProductsGrowth},
	{ID: "onboarding", Label: "Onboarding", Description: "new hire onboarding", Group: GroupProductsGrowth},
	{ID: "vendor", Label: "Vendor", Description: "vendor and third-party partnerships", Group: GroupProductsGrowth},
	{ID: "cost-savings", Label: "Cost Savings", Description: "cost reduction and efficiency", Group: GroupProductsGrowth},
	{ID: "revenue", Label: "Revenue", Description: "revenue growth opportunities", Group: GroupProductsGrowth},
	{ID: "risk", Label: "Risk Mgmt", Description: "risk management and fraud prevention", Group: GroupProductsGrowth},
	{ID: "investor", Label: "Investor", Description: "secondary market and investor relations", Group: GroupProductsGrowth},
	{ID: "policy", Label: "Policy", Description: "internal policy and procedure updates", Group: GroupProductsGrowth},
}

var modifierTable = []Modifier{
	{ID: "step-by-step", Label: "Step-by-Step", Instruction: "Break into numbered implementation steps"},
	{ID: "examples", Label: "Examples", Instruction: "Include practical mortgage industry examples"},
	{ID: "alternatives", Label: "Alternatives", Instruction: "Present 2-3 alternative approaches"},
	{ID: "best-practices", Label: "Best Practices", Instruction: "Highlight mortgage industry best practices"},
	{ID: "explain-reasoning", Label: "Reasoning", Instruction: "Explain the why behind decisions"},
	{ID: "roi-impact", Label: "ROI Impact", Instruction: "Include estimated ROI and business impact"},
	{ID: "borrower-impact", Label: "Borrower Impact", Instruction: "Describe borrower experience impact"},
	{ID: "compliance-check", Label: "Compliance", Instruction: "Address regulatory considerations"},
	{ID: "affected-teams", Label: "Affected Teams", Instruction: "Identify all affected teams"},
	{ID: "implementation-effort", Label: "Effort Estimate", Instruction: "Estimate complexity (low/medium/high)"},
	{ID: "timeline", Label: "Timeline", Instruction: "Include rough implementation timeline"},
	{ID: "risk-assessment", Label: "Risks", Instruction: "Identify risks and mitigations"},
	{ID: "metrics", Label: "Success Metrics", Instruction: "Define success metrics and KPIs"},
	{ID: "stakeholders", Label: "Stakeholders", Instruction: "Consider all stakeholder perspectives"},
}
