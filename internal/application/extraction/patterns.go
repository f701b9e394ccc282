package extraction

import (
	"regexp"

	domain "github.com/ronled86/InsuraIQ/internal/domain/extraction"
)

// Shared sub-expressions for the default rule set.
const (
	amountExpr = `([\d,]+(?:\.\d+)?)`
	dateExpr   = `(\d{4}-\d{2}-\d{2}|\d{1,2}[./-]\d{1,2}[./-]\d{2,4}|[A-Za-z]+ \d{1,2},? \d{4})`
	lineExpr   = `([^\n\r]+)`
)

func re(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

// DefaultRuleSet returns the built-in bilingual rule set covering English and
// Hebrew policy phrasing.  The chains are ordered most-specific first; Hebrew
// variants sit alongside their English counterparts so either language wins on
// first match.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		Sections: []SectionRules{
			{Section: domain.SectionBasicInfo, Rules: []Rule{
				{Field: "policy_number", Patterns: re(
					`(?i)policy\s*(?:number|no\.?|#)\s*[:\-]?\s*([A-Za-z0-9][A-Za-z0-9\-/]+)`,
					`מספר\s*פוליסה\s*[:\-]?\s*([A-Za-z0-9][A-Za-z0-9\-/]*)`,
					`פוליסה\s*מס(?:פר|')?\s*[:\-]?\s*([A-Za-z0-9][A-Za-z0-9\-/]*)`,
				)},
				{Field: "insurer", Patterns: re(
					`(?i)insur(?:er|ance\s*company)\s*[:\-]\s*`+lineExpr,
					`(?i)underwritten\s*by\s*[:\-]?\s*`+lineExpr,
					`חברת\s*(?:ה)?ביטוח\s*[:\-]?\s*`+lineExpr,
					`המבטח(?:ת)?\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "owner_name", Patterns: re(
					`(?i)(?:owner|policy\s*holder|insured)\s*name\s*[:\-]\s*`+lineExpr,
					`(?i)name\s*of\s*(?:the\s*)?insured\s*[:\-]\s*`+lineExpr,
					`שם\s*המבוטח\s*[:\-]?\s*`+lineExpr,
					`בעל\s*הפוליסה\s*[:\-]?\s*`+lineExpr,
				)},
				{Field: "id_number", Patterns: re(
					`(?i)(?:national\s*)?id\s*(?:number|no\.?)\s*[:\-]\s*(\d{5,9})`,
					`(?:מספר\s*)?ת(?:עודת)?\.?\s*ז(?:הות)?\.?\s*[:\-]?\s*(\d{5,9})`,
				)},
				{Field: "agent_name", Patterns: re(
					`(?i)agent\s*(?:name)?\s*[:\-]\s*`+lineExpr,
					`(?:שם\s*)?(?:ה)?סוכן\s*[:\-]\s*`+lineExpr,
				)},
			}},
			{Section: domain.SectionFinancialInfo, Rules: []Rule{
				{Field: "premium_monthly", Numeric: true, Patterns: re(
					`(?i)monthly\s*premium\s*[:\-]?\s*(?:USD|NIS|ILS|[$₪€])?\s*`+amountExpr,
					`(?i)premium\s*(?:per\s*month|/\s*month)\s*[:\-]?\s*(?:USD|NIS|ILS|[$₪€])?\s*`+amountExpr,
					`פרמיה\s*חודשית\s*[:\-]?\s*(?:[$₪€])?\s*`+amountExpr,
				)},
				{Field: "premium_annual", Numeric: true, Patterns: re(
					`(?i)annual\s*premium\s*[:\-]?\s*(?:USD|NIS|ILS|[$₪€])?\s*`+amountExpr,
					`(?i)premium\s*(?:per\s*year|/\s*year)\s*[:\-]?\s*(?:USD|NIS|ILS|[$₪€])?\s*`+amountExpr,
					`פרמיה\s*שנתית\s*[:\-]?\s*(?:[$₪€])?\s*`+amountExpr,
				)},
				{Field: "premium", Numeric: true, Patterns: re(
					`(?i)premium\s*[:\-]\s*(?:USD|NIS|ILS|[$₪€])?\s*`+amountExpr,
					`פרמיה\s*[:\-]\s*(?:[$₪€])?\s*`+amountExpr,
				)},
				{Field: "deductible", Numeric: true, Patterns: re(
					`(?i)deductible\s*[:\-]?\s*(?:USD|NIS|ILS|[$₪€])?\s*`+amountExpr,
					`השתתפות\s*עצמית\s*[:\-]?\s*(?:[$₪€])?\s*`+amountExpr,
				)},
				{Field: "coverage_limit", Numeric: true, Patterns: re(
					`(?i)coverage\s*limit\s*[:\-]?\s*(?:USD|NIS|ILS|[$₪€])?\s*`+amountExpr,
					`(?i)(?:maximum|max\.?)\s*coverage\s*[:\-]?\s*(?:USD|NIS|ILS|[$₪€])?\s*`+amountExpr,
					`(?i)sum\s*insured\s*[:\-]?\s*(?:USD|NIS|ILS|[$₪€])?\s*`+amountExpr,
					`(?:תקרת|גבול)\s*(?:ה)?כיסוי\s*[:\-]?\s*(?:[$₪€])?\s*`+amountExpr,
					`סכום\s*(?:ה)?ביטוח\s*[:\-]?\s*(?:[$₪€])?\s*`+amountExpr,
				)},
				{Field: "currency", Patterns: re(
					`(?i)currency\s*[:\-]\s*([A-Z]{3})`,
					`מטבע\s*[:\-]\s*([A-Za-z₪$€]{1,3})`,
				)},
				{Field: "payment_method", Patterns: re(
					`(?i)payment\s*method\s*[:\-]\s*`+lineExpr,
					`אמצעי\s*תשלום\s*[:\-]\s*`+lineExpr,
				)},
			}},
			{Section: domain.SectionPolicyTerms, Rules: []Rule{
				{Field: "start_date", Patterns: re(
					`(?i)(?:start|effective|commencement)\s*date\s*[:\-]?\s*`+dateExpr,
					`(?i)policy\s*period\s*[:\-]?\s*(?:from\s*)?`+dateExpr,
					`תאריך\s*תחילה\s*[:\-]?\s*`+dateExpr,
					`תחילת\s*(?:ה)?ביטוח\s*[:\-]?\s*`+dateExpr,
				)},
				{Field: "end_date", Patterns: re(
					`(?i)(?:end|expiry|expiration|termination)\s*date\s*[:\-]?\s*`+dateExpr,
					`(?i)(?:valid|in\s*force)\s*(?:until|through)\s*[:\-]?\s*`+dateExpr,
					`תאריך\s*סיום\s*[:\-]?\s*`+dateExpr,
					`תום\s*(?:תקופת\s*)?(?:ה)?ביטוח\s*[:\-]?\s*`+dateExpr,
				)},
				{Field: "renewal_terms", Patterns: re(
					`(?i)renewal\s*(?:terms?)?\s*[:\-]\s*`+lineExpr,
					`(?:תנאי\s*)?חידוש\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "cancellation_terms", Patterns: re(
					`(?i)cancellation\s*(?:policy|terms?)?\s*[:\-]\s*`+lineExpr,
					`(?:תנאי\s*)?ביטול\s*[:\-]\s*`+lineExpr,
				)},
			}},
			{Section: domain.SectionBeneficiaries, Rules: []Rule{
				{Field: "primary_beneficiary", Patterns: re(
					`(?i)(?:primary\s*)?beneficiary\s*[:\-]\s*`+lineExpr,
					`מוטב(?:\s*ראשי)?\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "contingent_beneficiary", Patterns: re(
					`(?i)(?:contingent|secondary)\s*beneficiary\s*[:\-]\s*`+lineExpr,
					`מוטב\s*משני\s*[:\-]\s*`+lineExpr,
				)},
			}},
			{Section: domain.SectionExclusions, Rules: []Rule{
				{Field: "general_exclusions", Patterns: re(
					`(?i)exclusions?\s*[:\-]\s*`+lineExpr,
					`(?i)not\s*covered\s*[:\-]\s*`+lineExpr,
					`חריגים\s*[:\-]\s*`+lineExpr,
					`לא\s*מכוסה\s*[:\-]\s*`+lineExpr,
				)},
			}},
			{Section: domain.SectionClaimsInfo, Rules: []Rule{
				{Field: "claims_phone", Patterns: re(
					`(?i)claims?\s*(?:hotline|phone|line)\s*[:\-]?\s*([\d\-+() ]{7,20})`,
					`(?:טלפון\s*)?תביעות\s*[:\-]\s*([\d\-+() ]{7,20})`,
				)},
				{Field: "claims_process", Patterns: re(
					`(?i)(?:to\s*file|filing)\s*a\s*claim\s*[:\-]?\s*`+lineExpr,
					`(?i)claims?\s*process\s*[:\-]\s*`+lineExpr,
					`הגשת\s*תביעה\s*[:\-]\s*`+lineExpr,
				)},
			}},
			{Section: domain.SectionContactInfo, Rules: []Rule{
				{Field: "contact_phone", Patterns: re(
					`(?i)(?:phone|tel(?:ephone)?)\s*[:\-]?\s*([\d\-+() ]{7,20})`,
					`טלפון\s*[:\-]?\s*([\d\-+() ]{7,20})`,
				)},
				{Field: "contact_email", Patterns: re(
					`(?i)e-?mail\s*[:\-]?\s*([\w.+-]+@[\w.-]+\.[A-Za-z]{2,})`,
					`דוא"ל\s*[:\-]?\s*([\w.+-]+@[\w.-]+\.[A-Za-z]{2,})`,
					`([\w.+-]+@[\w.-]+\.[A-Za-z]{2,})`,
				)},
				{Field: "address", Patterns: re(
					`(?i)address\s*[:\-]\s*`+lineExpr,
					`כתובת\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "website", Patterns: re(
					`(?i)(?:website|web)\s*[:\-]\s*(\S+)`,
					`(https?://\S+)`,
				)},
			}},
			{Section: domain.SectionLegalInfo, Rules: []Rule{
				{Field: "governing_law", Patterns: re(
					`(?i)governing\s*law\s*[:\-]\s*`+lineExpr,
					`(?:ה)?דין\s*(?:ה)?חל\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "jurisdiction", Patterns: re(
					`(?i)jurisdiction\s*[:\-]\s*`+lineExpr,
					`(?:סמכות\s*)?שיפוט\s*[:\-]\s*`+lineExpr,
				)},
			}},
			{Section: domain.SectionSpecialProvisions, Rules: []Rule{
				{Field: "special_conditions", Patterns: re(
					`(?i)special\s*(?:conditions?|provisions?)\s*[:\-]\s*`+lineExpr,
					`תנאים\s*מיוחדים\s*[:\-]\s*`+lineExpr,
				)},
			}},
			{Section: domain.SectionDocumentMetadata, Rules: []Rule{
				{Field: "document_date", Patterns: re(
					`(?i)(?:document|issue)\s*date\s*[:\-]?\s*`+dateExpr,
					`תאריך\s*הנפקה\s*[:\-]?\s*`+dateExpr,
				)},
				{Field: "document_version", Patterns: re(
					`(?i)version\s*[:\-]?\s*([\w.]+)`,
					`גרסה\s*[:\-]?\s*([\w.]+)`,
				)},
			}},
			{Section: domain.SectionRiskAssessment, Rules: []Rule{
				{Field: "risk_level", Patterns: re(
					`(?i)risk\s*(?:level|class|category)\s*[:\-]\s*`+lineExpr,
					`רמת\s*סיכון\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "risk_factors", Patterns: re(
					`(?i)risk\s*factors?\s*[:\-]\s*`+lineExpr,
					`גורמי\s*סיכון\s*[:\-]\s*`+lineExpr,
				)},
			}},
			{Section: domain.SectionPaymentSchedule, Rules: []Rule{
				{Field: "payment_frequency", Patterns: re(
					`(?i)payment\s*frequency\s*[:\-]\s*`+lineExpr,
					`(?i)(?:paid|payable)\s*(monthly|quarterly|annually|yearly)`,
					`תדירות\s*תשלום\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "next_payment_date", Patterns: re(
					`(?i)next\s*payment\s*(?:date|due)\s*[:\-]?\s*`+dateExpr,
					`תשלום\s*הבא\s*[:\-]?\s*`+dateExpr,
				)},
			}},
			{Section: domain.SectionRidersEndorse, Rules: []Rule{
				{Field: "riders", Patterns: re(
					`(?i)riders?\s*[:\-]\s*`+lineExpr,
					`(?i)endorsements?\s*[:\-]\s*`+lineExpr,
					`נספחים\s*[:\-]\s*`+lineExpr,
					`הרחבות\s*[:\-]\s*`+lineExpr,
				)},
			}},
			{Section: domain.SectionVehicleInfo, Rules: []Rule{
				{Field: "vehicle_make", Patterns: re(
					`(?i)(?:vehicle\s*)?make\s*[:\-]\s*`+lineExpr,
					`יצרן\s*(?:הרכב)?\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "vehicle_model", Patterns: re(
					`(?i)(?:vehicle\s*)?model\s*[:\-]\s*`+lineExpr,
					`דגם\s*(?:הרכב)?\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "vehicle_year", Patterns: re(
					`(?i)(?:vehicle\s*|model\s*)?year\s*[:\-]?\s*(\d{4})`,
					`שנת\s*ייצור\s*[:\-]?\s*(\d{4})`,
				)},
				{Field: "license_plate", Patterns: re(
					`(?i)(?:license|registration)\s*(?:plate|number)\s*[:\-]?\s*([A-Za-z0-9\-]+)`,
					`מספר\s*רישוי\s*[:\-]?\s*([0-9\-]+)`,
				)},
				{Field: "vin", Patterns: re(
					`(?i)vin\s*[:\-]?\s*([A-HJ-NPR-Z0-9]{11,17})`,
				)},
			}},
			{Section: domain.SectionPropertyInfo, Rules: []Rule{
				{Field: "property_address", Patterns: re(
					`(?i)property\s*address\s*[:\-]\s*`+lineExpr,
					`כתובת\s*הנכס\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "property_type", Patterns: re(
					`(?i)property\s*type\s*[:\-]\s*`+lineExpr,
					`סוג\s*הנכס\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "year_built", Patterns: re(
					`(?i)year\s*built\s*[:\-]?\s*(\d{4})`,
					`שנת\s*בנייה\s*[:\-]?\s*(\d{4})`,
				)},
				{Field: "square_meters", Numeric: true, Patterns: re(
					`(?i)(?:area|size)\s*[:\-]?\s*`+amountExpr+`\s*(?:sqm|m2|m²)`,
					amountExpr + `\s*מ"ר`,
				)},
			}},
			{Section: domain.SectionHealthInfo, Rules: []Rule{
				{Field: "plan_type", Patterns: re(
					`(?i)plan\s*(?:type|name)\s*[:\-]\s*`+lineExpr,
					`סוג\s*(?:ה)?תוכנית\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "group_number", Patterns: re(
					`(?i)group\s*(?:number|no\.?)\s*[:\-]?\s*([A-Za-z0-9\-]+)`,
				)},
				{Field: "member_id", Patterns: re(
					`(?i)member\s*id\s*[:\-]?\s*([A-Za-z0-9\-]+)`,
					`מספר\s*חבר\s*[:\-]?\s*([A-Za-z0-9\-]+)`,
				)},
			}},
			{Section: domain.SectionLifeInfo, Rules: []Rule{
				{Field: "face_amount", Numeric: true, Patterns: re(
					`(?i)face\s*(?:amount|value)\s*[:\-]?\s*(?:USD|NIS|ILS|[$₪€])?\s*`+amountExpr,
					`(?i)death\s*benefit\s*[:\-]?\s*(?:USD|NIS|ILS|[$₪€])?\s*`+amountExpr,
				)},
				{Field: "term_length", Patterns: re(
					`(?i)term\s*(?:length)?\s*[:\-]?\s*(\d+\s*(?:years?|months?))`,
					`תקופת\s*(?:ה)?ביטוח\s*[:\-]?\s*(\d+\s*שנ(?:ים|ה))`,
				)},
			}},
			{Section: domain.SectionBusinessInfo, Rules: []Rule{
				{Field: "business_name", Patterns: re(
					`(?i)business\s*name\s*[:\-]\s*`+lineExpr,
					`שם\s*(?:ה)?עסק\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "business_type", Patterns: re(
					`(?i)business\s*type\s*[:\-]\s*`+lineExpr,
					`סוג\s*(?:ה)?עסק\s*[:\-]\s*`+lineExpr,
				)},
				{Field: "employee_count", Numeric: true, Patterns: re(
					`(?i)(?:number\s*of\s*)?employees\s*[:\-]?\s*(\d+)`,
					`מספר\s*עובדים\s*[:\-]?\s*(\d+)`,
				)},
			}},
		},
		Coverage: []CoverageRule{
			{Type: "collision_coverage", Description: "Collision damage", Patterns: re(
				`(?i)collision\s*(?:coverage)?\s*[:\-]?\s*(?:up\s*to\s*)?(?:USD|NIS|ILS|[$₪€])?\s*` + amountExpr,
				`(?i)collision\s*(?:coverage|damage)`,
				`נזק\s*עצמי`,
			)},
			{Type: "comprehensive_coverage", Description: "Comprehensive cover", Patterns: re(
				`(?i)comprehensive\s*(?:coverage)?\s*[:\-]?\s*(?:up\s*to\s*)?(?:USD|NIS|ILS|[$₪€])?\s*` + amountExpr,
				`(?i)comprehensive\s*(?:coverage|insurance)`,
				`ביטוח\s*מקיף`,
			)},
			{Type: "third_party_liability", Description: "Third party liability", Patterns: re(
				`(?i)third[\s-]*party\s*(?:liability)?\s*[:\-]?\s*(?:up\s*to\s*)?(?:USD|NIS|ILS|[$₪€])?\s*` + amountExpr,
				`(?i)third[\s-]*party\s*liability`,
				`צד\s*(?:ג|שלישי)`,
			)},
			{Type: "liability_coverage", Description: "General liability", Patterns: re(
				`(?i)liability\s*(?:coverage|limit)\s*[:\-]?\s*(?:up\s*to\s*)?(?:USD|NIS|ILS|[$₪€])?\s*` + amountExpr,
				`(?i)general\s*liability`,
				`ביטוח\s*אחריות`,
			)},
			{Type: "medical_coverage", Description: "Medical expenses", Patterns: re(
				`(?i)medical\s*(?:expenses?|coverage|payments?)\s*[:\-]?\s*(?:up\s*to\s*)?(?:USD|NIS|ILS|[$₪€])?\s*` + amountExpr,
				`(?i)medical\s*(?:expenses?|coverage)`,
				`הוצאות\s*רפואיות`,
			)},
			{Type: "fire_coverage", Description: "Fire damage", Patterns: re(
				`(?i)fire\s*(?:coverage|damage)\s*[:\-]?\s*(?:up\s*to\s*)?(?:USD|NIS|ILS|[$₪€])?\s*` + amountExpr,
				`(?i)fire\s*(?:coverage|damage)`,
				`(?:נזקי\s*)?(?:אש|שריפה)`,
			)},
			{Type: "theft_coverage", Description: "Theft", Patterns: re(
				`(?i)theft\s*(?:coverage)?\s*[:\-]?\s*(?:up\s*to\s*)?(?:USD|NIS|ILS|[$₪€])?\s*` + amountExpr,
				`(?i)theft\s*(?:coverage|protection)`,
				`(?:כיסוי\s*)?גניבה`,
			)},
			{Type: "flood_coverage", Description: "Flood and water damage", Patterns: re(
				`(?i)(?:flood|water\s*damage)\s*(?:coverage)?\s*[:\-]?\s*(?:up\s*to\s*)?(?:USD|NIS|ILS|[$₪€])?\s*` + amountExpr,
				`(?i)(?:flood|water\s*damage)\s*coverage`,
				`נזקי\s*מים`,
			)},
			{Type: "personal_accident", Description: "Personal accident", Patterns: re(
				`(?i)personal\s*accident\s*[:\-]?\s*(?:up\s*to\s*)?(?:USD|NIS|ILS|[$₪€])?\s*` + amountExpr,
				`(?i)personal\s*accident`,
				`תאונות\s*אישיות`,
			)},
		},
		PolicyNumberFallback: regexp.MustCompile(`(\d{4,})`),
	}
}
