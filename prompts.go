package reflexion

import (
	"fmt"
	"strings"
)

// PromptSet holds the instruction preamble for every generation step.
// The set is injected at construction (WithPrompts) so alternate
// wording can be tested; the protocol markers the instructions demand
// must stay bit-exact or the extractors will not find them.
type PromptSet struct {
	Reasoning          string
	Reflection         string
	SnippetJudge       string
	ContentJudge       string
	QueryRewrite       string
	SearchDirection    string
	PresenceCheck      string
	RefineExtraction   string
	HallucinationCheck string
	FinalAnswer        string
}

const defaultReasoningPrompt = "You are a reasoning assistant that can search the web. " +
	"Think step by step. Whenever you need external information, write the query between " +
	BeginSearchQuery + " and " + EndSearchQuery + " and stop. Search results will be appended " +
	"to your reasoning after the marker " + FinalInformation + ". When you have enough " +
	"information, finish your reasoning and put ONLY the final answer inside \\boxed{}."

const defaultReflectionPrompt = "You are reviewing an in-progress research session. " +
	"Judge whether the latest search results move the question forward, then act:\n" +
	"- If the gathered information already answers the question, finish with the answer inside \\boxed{}.\n" +
	"- Otherwise propose ONE better search query between " + BeginSearchQuery + " and " + EndSearchQuery + ".\n" +
	"Do not repeat a query that was already tried."

const defaultSnippetJudgePrompt = "You judge search results. Decide whether the snippets below are " +
	"relevant to the search query and useful for the question. Respond with exactly one line:\n" +
	"JUDGEMENT: YES\nor\nJUDGEMENT: NO | Reason: <short reason>"

const defaultContentJudgePrompt = "You judge gathered information. Decide whether the extracted " +
	"information below is sufficient to answer the question. Respond with exactly one line:\n" +
	"JUDGEMENT: YES\nor\nJUDGEMENT: NO | Reason: <short reason>"

const defaultQueryRewritePrompt = "A search query was judged unhelpful. Write a better query.\n" +
	"Respond in exactly this format:\n" +
	LabelAnalysis + " <one sentence on what went wrong>\n" +
	LabelNewQuery + " <the improved search query>"

const defaultSearchDirectionPrompt = "The gathered information was judged insufficient. " +
	"Suggest how the search strategy should change (different angle, entity, source, or time range). " +
	"Start your suggestion with the line:\n" + LabelSearchDirection + " <one-line direction>"

const defaultPresenceCheckPrompt = "Documents follow. Decide whether they contain the information " +
	"needed to answer the query. Respond with exactly one line:\n" +
	"STATUS: PRESENT\nor\nSTATUS: ABSENT"

const defaultRefineExtractionPrompt = "Re-read the documents below carefully. The answer to the query " +
	"is believed to be present. Extract the exact relevant information. Begin your response with\n" +
	FinalInformation + "\nfollowed by the extracted information, or respond with exactly\n" +
	NoHelpfulInformation

const defaultHallucinationCheckPrompt = "You check a finalized answer for hallucination. Decide whether " +
	"the answer makes claims that are not clearly grounded in the question's gathered context. " +
	"Respond with exactly one line:\n" +
	"JUDGEMENT: YES | Reason: <ungrounded claim>\nor\nJUDGEMENT: NO"

const defaultFinalAnswerPrompt = "Answer the question using the reasoning and information below. " +
	"Put ONLY the final answer inside \\boxed{}."

// DefaultPrompts returns the production prompt wording.
func DefaultPrompts() PromptSet {
	return PromptSet{
		Reasoning:          defaultReasoningPrompt,
		Reflection:         defaultReflectionPrompt,
		SnippetJudge:       defaultSnippetJudgePrompt,
		ContentJudge:       defaultContentJudgePrompt,
		QueryRewrite:       defaultQueryRewritePrompt,
		SearchDirection:    defaultSearchDirectionPrompt,
		PresenceCheck:      defaultPresenceCheckPrompt,
		RefineExtraction:   defaultRefineExtractionPrompt,
		HallucinationCheck: defaultHallucinationCheckPrompt,
		FinalAnswer:        defaultFinalAnswerPrompt,
	}
}

// snippet and history caps for the snippet-relevance gate.
const (
	maxJudgeSnippets    = 5
	maxSnippetChars     = 150
	maxHistoryChars     = 500
	maxJudgeInfoChars   = 2000
	maxPresenceDocChars = 30000
	maxRefineDocChars   = 35000
	maxAnswerJudgeChars = 2000
)

// tail returns the last n characters of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// clip returns the first n characters of s.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func buildReasoningPrompt(p PromptSet, question, reasoning string) string {
	var b strings.Builder
	b.WriteString(p.Reasoning)
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	if strings.TrimSpace(reasoning) != "" {
		b.WriteString("\n\nReasoning so far:\n")
		b.WriteString(reasoning)
		b.WriteString("\n\nContinue the reasoning.")
	}
	return b.String()
}

func buildSnippetJudgePrompt(p PromptSet, question, query string, results []ResultRecord, history string) string {
	var b strings.Builder
	b.WriteString(p.SnippetJudge)
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	b.WriteString("\n\nSearch Query:\n")
	b.WriteString(query)
	if h := strings.TrimSpace(tail(history, maxHistoryChars)); h != "" {
		b.WriteString("\n\nRecent Reasoning:\n")
		b.WriteString(h)
	}
	b.WriteString("\n\nSnippets:\n")
	if len(results) == 0 {
		b.WriteString("(no results returned)\n")
	}
	for i, r := range results {
		if i >= maxJudgeSnippets {
			break
		}
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, clip(strings.TrimSpace(r.Snippet), maxSnippetChars)))
	}
	return b.String()
}

func buildContentJudgePrompt(p PromptSet, question, info, history string) string {
	var b strings.Builder
	b.WriteString(p.ContentJudge)
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	if h := strings.TrimSpace(tail(history, maxHistoryChars)); h != "" {
		b.WriteString("\n\nRecent Reasoning:\n")
		b.WriteString(h)
	}
	b.WriteString("\n\nExtracted Information:\n")
	b.WriteString(clip(info, maxJudgeInfoChars))
	return b.String()
}

func buildQueryRewritePrompt(p PromptSet, question, failedQuery, reason string) string {
	var b strings.Builder
	b.WriteString(p.QueryRewrite)
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	b.WriteString("\n\nFailed Query:\n")
	b.WriteString(failedQuery)
	b.WriteString("\n\nJudge's Reason:\n")
	b.WriteString(reason)
	return b.String()
}

func buildSearchDirectionPrompt(p PromptSet, question, info, reason string) string {
	var b strings.Builder
	b.WriteString(p.SearchDirection)
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	b.WriteString("\n\nInformation So Far:\n")
	if strings.TrimSpace(info) == "" {
		b.WriteString("(none)\n")
	} else {
		b.WriteString(clip(info, maxJudgeInfoChars))
		b.WriteString("\n")
	}
	b.WriteString("\nJudge's Reason:\n")
	b.WriteString(reason)
	return b.String()
}

func buildReflectionPrompt(p PromptSet, question, currentReasoning, judgeFeedback, lastQuery, preview string, remainingSearches int) string {
	var b strings.Builder
	b.WriteString(p.Reflection)
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	b.WriteString("\n\nCurrent Reasoning:\n")
	if strings.TrimSpace(currentReasoning) == "" {
		b.WriteString("(none yet)\n")
	} else {
		b.WriteString(currentReasoning)
		b.WriteString("\n")
	}
	b.WriteString("\nJudge Feedback:\n")
	b.WriteString(judgeFeedback)
	b.WriteString("\n\nLast Search Query:\n")
	b.WriteString(lastQuery)
	b.WriteString("\n\nSearch Results Preview:\n")
	b.WriteString(preview)
	b.WriteString(fmt.Sprintf("\n\nRemaining searches: %d\n", remainingSearches))
	return b.String()
}

func buildPresencePrompt(p PromptSet, query, document string) string {
	var b strings.Builder
	b.WriteString(p.PresenceCheck)
	b.WriteString("\n\nQuery:\n")
	b.WriteString(query)
	b.WriteString("\n\nDocuments:\n")
	b.WriteString(clip(document, maxPresenceDocChars))
	return b.String()
}

func buildRefinePrompt(p PromptSet, query, document string) string {
	var b strings.Builder
	b.WriteString(p.RefineExtraction)
	b.WriteString("\n\nQuery:\n")
	b.WriteString(query)
	b.WriteString("\n\nDocuments:\n")
	b.WriteString(clip(document, maxRefineDocChars))
	return b.String()
}

func buildHallucinationPrompt(p PromptSet, question, answer string) string {
	var b strings.Builder
	b.WriteString(p.HallucinationCheck)
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	b.WriteString("\n\nFinalized Answer:\n")
	b.WriteString(clip(answer, maxAnswerJudgeChars))
	return b.String()
}

func buildFinalAnswerPrompt(p PromptSet, question, reasoning string) string {
	var b strings.Builder
	b.WriteString(p.FinalAnswer)
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	b.WriteString("\n\nReasoning and Information:\n")
	if strings.TrimSpace(reasoning) == "" {
		b.WriteString("(none)")
	} else {
		b.WriteString(reasoning)
	}
	return b.String()
}
