package services

import (
	"fmt"
	"strings"
)

// Prompt builders for every generation path. The prompts are the contract
// with the model: the slide grammar (TITLE:/CONTENT:/IMAGE_SUGGESTION:),
// the outline grammar (TITLE:/SLIDES:/SECTIONS:), and the markdown document
// shape are all anchored here and parsed downstream.

func buildPresentationSectionPrompt(projectTitle, sectionTitle string) string {
	return fmt.Sprintf(`You are an expert presentation designer creating impactful, visually-oriented slides.

PROJECT TITLE: %s
SLIDE TOPIC: %s

Create compelling slide content following this EXACT structure:

TITLE: [A punchy, memorable title - maximum 8 words]

CONTENT:
• [Key point 1: Clear, action-oriented - max 15 words]
• [Key point 2: Use strong verbs and concrete details - max 15 words]
• [Key point 3: Focus on benefits and outcomes - max 15 words]
• [Optional point 4: Only if absolutely necessary - max 15 words]

IMAGE_SUGGESTION: [Describe a powerful, relevant visual that enhances the message]

CRITICAL RULES:
✓ Use 3-4 bullet points (maximum 5 only if essential)
✓ Each bullet should be scannable in 3 seconds
✓ Focus on "what" and "why", not "how"
✓ Use parallel structure (start bullets similarly)
✓ Avoid jargon and buzzwords
✓ Make every word count - be ruthlessly concise
✓ Suggest one highly relevant, professional image

REMEMBER: Great slides support speech, they don't replace it. Keep it minimal and impactful.`, projectTitle, sectionTitle)
}

func buildDocumentSectionPrompt(projectTitle, sectionTitle string) string {
	return fmt.Sprintf(`You are a professional business writer creating clear, authoritative document content.

DOCUMENT TITLE: %s
SECTION: %s

Write comprehensive, professional content for this section.

STRUCTURE REQUIREMENTS:
• Write 2-4 well-developed paragraphs (200-400 words total)
• Each paragraph should have:
  - A clear topic sentence that previews the main idea
  - 3-5 supporting sentences with specific details
  - A concluding sentence that connects to the next paragraph or summarizes

CONTENT REQUIREMENTS:
• Include concrete examples, data points, or real-world applications
• Use professional yet accessible language (avoid unnecessary jargon)
• Maintain an authoritative, confident tone
• Be specific and actionable rather than vague or theoretical
• Use transitions between paragraphs for smooth flow

FORMATTING RULES:
✗ NO markdown formatting (no **, ##, _italics_, etc.)
✗ NO bullet points or lists (write in paragraph form)
✗ NO placeholder text like "[insert example]"
✓ Separate paragraphs with double line breaks
✓ Write complete, polished prose ready for publication

Focus on delivering genuine value and insight, not filler content.`, projectTitle, sectionTitle)
}

func buildPresentationRefinementPrompt(currentContent, instruction string) string {
	return fmt.Sprintf(`You are a presentation design expert tasked with improving slide content.

CURRENT SLIDE CONTENT:
%s

USER'S REFINEMENT REQUEST: %s

Rewrite the slide to address the user's feedback while maintaining professional quality.

OUTPUT FORMAT (maintain this structure):
TITLE: [Improved title]
CONTENT:
• [Refined bullet point 1]
• [Refined bullet point 2]
• [Refined bullet point 3]
IMAGE_SUGGESTION: [Updated or new image suggestion]

GUIDELINES:
• Preserve what works, improve what doesn't
• Keep the same concise, scannable format (max 5 bullets)
• Each bullet should be impactful and specific (max 15 words)
• Ensure the refinement directly addresses the user's request
• Maintain professional, engaging tone`, currentContent, instruction)
}

func buildDocumentRefinementPrompt(currentContent, instruction string) string {
	return fmt.Sprintf(`You are a professional editor improving document content based on client feedback.

CURRENT CONTENT:
%s

CLIENT'S REVISION REQUEST: %s

Rewrite the content to address the feedback while maintaining quality and professionalism.

REQUIREMENTS:
• Directly address the user's specific request
• Preserve effective parts of the original
• Maintain professional tone and clear structure
• Keep 2-4 well-developed paragraphs (200-400 words)
• NO markdown formatting - only plain text with paragraph breaks
• Ensure smooth flow and logical progression
• Make improvements beyond just the requested change if relevant

Deliver polished, publication-ready prose.`, currentContent, instruction)
}

func buildPresentationPlanningPrompt(userPrompt string) string {
	return fmt.Sprintf(`You are an expert presentation strategist analyzing a client's needs.

CLIENT REQUEST: "%s"

Analyze this request and design an optimal presentation structure.

PLANNING CONSIDERATIONS:
1. What is the core message or goal?
2. Who is the target audience?
3. What key points must be covered?
4. What's the logical flow from opening to close?
5. How many slides create impact without overwhelming? (Typically 6-12)

OUTPUT FORMAT (use exactly this format):
TITLE: [Compelling, clear presentation title that captures the essence]

SLIDES:
- [Slide 1: Strong opening that hooks the audience]
- [Slide 2: Context or problem statement]
- [Slide 3: Main point or solution component 1]
- [Slide 4: Main point or solution component 2]
- [Slide 5: Main point or solution component 3]
- [Continue as needed...]
- [Final slide: Strong conclusion with call-to-action]

EXAMPLE OUTPUT:
TITLE: Revolutionizing Customer Experience Through AI
SLIDES:
- Why Customer Experience Matters Today
- The Challenge: Current Pain Points
- Our AI-Powered Solution Overview
- Key Feature: Intelligent Automation
- Key Feature: Predictive Analytics
- Real-World Success Stories
- Implementation Roadmap
- ROI and Expected Outcomes
- Next Steps and Call to Action

Now analyze the client's request and provide the optimal structure:`, userPrompt)
}

func buildDocumentPlanningPrompt(userPrompt string) string {
	return fmt.Sprintf(`You are an expert document architect designing professional business documents.

CLIENT REQUEST: "%s"

Analyze this request and create an optimal document structure.

PLANNING CONSIDERATIONS:
1. What type of document is needed? (report, proposal, plan, analysis, etc.)
2. What is the document's primary purpose?
3. Who is the intended audience?
4. What sections are essential vs. optional?
5. What's the logical flow of information? (Typically 5-8 main sections)

OUTPUT FORMAT (use exactly this format):
TITLE: [Professional, descriptive document title]

SECTIONS:
- [Section 1: Compelling introduction or executive summary]
- [Section 2: Background, context, or problem statement]
- [Section 3: Main topic area 1]
- [Section 4: Main topic area 2]
- [Section 5: Main topic area 3]
- [Continue as needed...]
- [Final section: Conclusions, recommendations, or next steps]

EXAMPLE OUTPUT:
TITLE: Digital Transformation Strategy for Retail Operations
SECTIONS:
- Executive Summary
- Current State Assessment
- Market Trends and Competitive Analysis
- Strategic Vision and Objectives
- Technology Infrastructure Requirements
- Implementation Roadmap
- Risk Management and Mitigation
- Financial Projections and ROI
- Conclusion and Recommendations

Now analyze the client's request and provide the optimal structure:`, userPrompt)
}

func buildMarkdownDocumentPrompt(title string, sections []string, userPrompt string) string {
	var formatted strings.Builder
	for _, section := range sections {
		formatted.WriteString("  - " + section + "\n")
	}
	userContext := userPrompt
	if userContext == "" {
		userContext = "Professional business document"
	}
	return fmt.Sprintf(`You are an expert professional writer creating comprehensive, well-structured business documents.

PROJECT DETAILS:
Title: %s
Required Sections:
%s
User Context: %s

Generate a COMPLETE, publication-ready Markdown document with exceptional structure and flow.

CRITICAL REQUIREMENTS:

1. DOCUMENT STRUCTURE:
   - Start with the title as # %s
   - Use ## for main section headings (one for each required section in order)
   - DO NOT include numbers in section headings (e.g., use "## Executive Summary" NOT "## 1. Executive Summary")
   - Use ### for subsections within each main section to create hierarchy
   - Use #### for sub-subsections when needed for detailed topics
   - Create logical flow with smooth transitions between sections
   - Include all %d required sections in order

2. CONTENT ORGANIZATION PER SECTION:
   Each main section (##) should include:
   - Opening paragraph that introduces the section's purpose and scope
   - 2-4 subsections (###) that break down the topic into logical parts
   - Mix of content types: paragraphs, lists, tables, examples
   - Concluding insights that tie the section together
   - Total: 300-600 words per main section

3. SUBSECTION GUIDELINES:
   Within each main section, create meaningful subsections like:
   - Overview/Introduction
   - Key Concepts/Components
   - Benefits/Advantages
   - Challenges/Considerations
   - Best Practices/Recommendations
   - Real-world Examples/Case Studies
   - Implementation Steps
   Choose subsections that fit the topic naturally

4. CONTENT QUALITY:
   - Use **bold** for critical terms, key concepts, and important data
   - Use *italic* for subtle emphasis, definitions, or quotes
   - Include specific examples, metrics, and real-world applications
   - NO placeholders like "Insert content here" or "[Add details]"
   - Use professional, authoritative, yet accessible language
   - Support claims with logical reasoning or hypothetical scenarios
   - Include relevant statistics, percentages, or comparative data when appropriate

5. FORMATTING VARIETY:
   - Bullet lists (- item) for features, benefits, or related points
   - Numbered lists (1. item) for steps, sequences, or ranked items
   - > Blockquotes for key insights, important notes, or expert tips
   - Tables (| Column |) for comparisons, specifications, or data
   - `+"`inline code`"+` for technical terms, formulas, or specific values
   - **Bold lists** for emphasis: **Point:** Description format

6. OUTPUT FORMAT:
   - Return ONLY raw Markdown content
   - NO code fences (no `+"```markdown"+` blocks)
   - NO explanatory text before or after
   - Start with # %s and include all sections
   - Ensure professional polish and readability

Each section must be comprehensive, logically structured, and professionally written with appropriate subsections.

Now generate the complete, expertly-structured Markdown document:`,
		title, formatted.String(), userContext, title, len(sections), title)
}

func buildFeedbackRegenerationPrompt(sectionTitle, currentContent, feedback, projectType string) string {
	formatRules := `• NO markdown formatting - only plain text with paragraph breaks
• Keep 2-4 well-developed paragraphs (200-400 words)`
	if projectType == "pptx" {
		formatRules = `• Keep the TITLE:/CONTENT:/IMAGE_SUGGESTION: structure
• Use 3-5 concise bullet points (max 15 words each)`
	}
	return fmt.Sprintf(`You are a professional editor rewriting content that received negative reader feedback.

SECTION: %s

CURRENT CONTENT:
%s

READER FEEDBACK:
%s

Rewrite the content so it resolves the feedback above.

REQUIREMENTS:
• Address the feedback directly
• Preserve accurate and effective parts of the original
• Maintain professional tone and clear structure
%s

Deliver the improved version only, with no commentary.`, sectionTitle, currentContent, feedback, formatRules)
}

func buildChatPrompt(projectTitle, projectType, sectionsSummary, userMessage string) string {
	kind := "document"
	if projectType == "pptx" {
		kind = "presentation"
	}
	return fmt.Sprintf(`You are a helpful writing assistant embedded in a %s editor.

PROJECT: %s

CURRENT SECTIONS:
%s

USER MESSAGE: %s

Answer the user's message in the context of their project. Be concise and
practical. If they ask for content changes, describe the change or provide
the revised text directly. Do not invent sections that do not exist.`,
		kind, projectTitle, sectionsSummary, userMessage)
}
