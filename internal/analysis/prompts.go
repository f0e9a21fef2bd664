package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sgrishin/recruit-pilot/internal/crm"
)

func renderRecord(record *crm.Record) (string, error) {
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render record %s: %w", record.ID, err)
	}
	return string(payload), nil
}

func assessmentPrompt(record *crm.Record, jobDescription string) (string, error) {
	context, err := renderRecord(record)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You are a brutally honest senior technical recruiter with 15+ years of experience. ")
	b.WriteString("You are known for providing realistic, no-sugar-coating assessments that help candidates understand their true market position. ")
	b.WriteString("Analyze this candidate data and provide an honest evaluation including:\n\n")
	b.WriteString("1. REALISTIC Skill Assessment: Be specific about actual competency levels vs. market standards\n")
	b.WriteString("2. Experience Gap Analysis: Identify missing years, scope, or depth of experience\n")
	b.WriteString("3. Market Reality Check: How this candidate truly compares to others in the field\n")
	b.WriteString("4. Compensation Alignment: Whether salary expectations match actual market value\n")
	b.WriteString("5. Red Flags: Any concerns about performance, consistency, or capability gaps\n")
	b.WriteString("6. Honest Recommendation: Direct advice on what level/type of roles they should realistically target\n\n")
	b.WriteString("Be encouraging where appropriate, but prioritize honesty over politeness. ")
	b.WriteString("If someone is aiming too high, say so clearly. If they need significant development, be specific about what and how much.\n\n")
	fmt.Fprintf(&b, "Candidate Data:\n%s\n\n", context)
	if jobDescription != "" {
		fmt.Fprintf(&b, "Job Description Provided:\n%s\n\n", jobDescription)
	}
	b.WriteString("Provide your honest assessment:")
	return b.String(), nil
}

func fitPrompt(record *crm.Record, jobDescription string) (string, error) {
	context, err := renderRecord(record)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You are a senior technical recruiter known for honest, realistic assessments. ")
	b.WriteString("Your job is to provide a reality check on candidate fit. Be direct about gaps and mismatches.\n\n")
	b.WriteString("Provide a realistic assessment covering:\n")
	b.WriteString("1. CLEAR ALIGNMENTS: What genuinely matches the requirements\n")
	b.WriteString("2. CRITICAL GAPS: Missing skills, experience, or qualifications that are deal-breakers\n")
	b.WriteString("3. EXPERIENCE LEVEL MISMATCH: If they're under/over-qualified, say so bluntly\n")
	b.WriteString("4. RISK FACTORS: Red flags or concerning patterns\n")
	b.WriteString("5. REALISTIC VERDICT: Choose ONE - Strong Fit / Moderate Fit / Weak Fit / Poor Fit\n\n")
	b.WriteString("Don't inflate scores to be kind. Be honest about what employers actually need vs. what this candidate offers. ")
	b.WriteString("If someone with minimal experience is targeting senior roles, call it out directly.\n\n")
	fmt.Fprintf(&b, "Candidate Data:\n%s\n\n", context)
	if jobDescription != "" {
		fmt.Fprintf(&b, "Evaluate the candidate strictly against the following job description. Job Description (verbatim):\n%s\n\n", jobDescription)
	} else {
		b.WriteString("No job description provided; assess general market fit based on available fields.\n\n")
	}
	b.WriteString("Provide your honest fit assessment:")
	return b.String(), nil
}

func guidancePrompt(analysis, fitGaps, careerPath string) string {
	var b strings.Builder
	b.WriteString("You are a senior career advisor known for giving realistic, actionable advice. ")
	b.WriteString("Based on the candidate's current state and their career goal, provide honest guidance.\n\n")
	b.WriteString("Your advice should:\n")
	b.WriteString("1. Be REALISTIC about timeline (don't promise quick fixes)\n")
	b.WriteString("2. Prioritize the MOST CRITICAL gaps first\n")
	b.WriteString("3. Include estimated TIMEFRAMES for development\n")
	b.WriteString("4. Mention if the goal is particularly challenging or unrealistic\n")
	b.WriteString("5. Suggest intermediate milestones if the goal is ambitious\n")
	b.WriteString("6. Be specific about skills, experience, certifications, or connections needed\n\n")
	b.WriteString("If someone with minimal experience wants a senior role at a top company, ")
	b.WriteString("tell them honestly that it may take 5-10 years and suggest realistic stepping stones.\n\n")
	fmt.Fprintf(&b, "Current Analysis:\n%s\n\n", analysis)
	fmt.Fprintf(&b, "Fit & Gaps Assessment:\n%s\n\n", fitGaps)
	fmt.Fprintf(&b, "Desired Career Path:\n%s\n\n", careerPath)
	b.WriteString("Provide honest, actionable career guidance with realistic timelines:")
	return b.String()
}

func scorePrompt(analysis, fitGaps, careerPath string) string {
	var b strings.Builder
	b.WriteString("You are a realistic career assessor who gives honest scores based on market realities. ")
	b.WriteString("Score how likely this candidate is to achieve their career goal within 2-3 years, considering:\n")
	b.WriteString("- Current experience level vs. target role requirements\n")
	b.WriteString("- Typical career progression timelines in the industry\n")
	b.WriteString("- Market competition and hiring standards\n")
	b.WriteString("- Skill gaps and time needed to bridge them\n\n")
	b.WriteString("SCORING GUIDELINES:\n")
	b.WriteString("90-100: Already qualified or 1 promotion away\n")
	b.WriteString("70-89: Realistic with 2-3 years focused development\n")
	b.WriteString("50-69: Possible but requires significant effort and luck\n")
	b.WriteString("30-49: Major career pivot needed, very challenging\n")
	b.WriteString("0-29: Unrealistic goal given current background\n\n")
	fmt.Fprintf(&b, "Current Analysis:\n%s\n\n", analysis)
	fmt.Fprintf(&b, "Fit & Gaps Assessment:\n%s\n\n", fitGaps)
	fmt.Fprintf(&b, "Desired Career Path:\n%s\n\n", careerPath)
	b.WriteString("Be brutally honest. Don't inflate scores to be nice.\n")
	b.WriteString("Respond in this exact format:\n")
	b.WriteString("SCORE: [number 0-100]\n")
	b.WriteString("REASONING: [honest 1-2 sentence explanation]")
	return b.String()
}

func questionsPrompt(jobDescription string) string {
	var b strings.Builder
	b.WriteString("You are an expert HR professional and interview specialist. Based on the job description provided, ")
	b.WriteString("generate exactly 3 thoughtful, open-ended interview questions that would help assess candidates for this role.\n\n")
	b.WriteString("The questions should:\n")
	b.WriteString("- Be open-ended (not yes/no questions)\n")
	b.WriteString("- Test both technical skills and soft skills relevant to the role\n")
	b.WriteString("- Be specific to the requirements mentioned in the job description\n")
	b.WriteString("- Encourage detailed responses that reveal candidate experience and thinking\n")
	b.WriteString("- Be professional and appropriate for an interview setting\n\n")
	fmt.Fprintf(&b, "Job Description:\n%s\n\n", jobDescription)
	b.WriteString("Please provide exactly 3 questions, one per line, numbered 1, 2, 3:")
	return b.String()
}
