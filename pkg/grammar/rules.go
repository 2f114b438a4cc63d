package grammar

// Precedence levels. Higher levels bind tighter.
const (
	PrecList     = 1 // "&&" and "||"
	PrecNegation = 2 // prefix "!"
	PrecPipeline = 3 // "|" and "|&"
)

// Rules returns the production rules of the Dash language. Each call returns
// a fresh copy.
//
//nolint:funlen // One declaration per nonterminal.
func Rules() []Rule {
	return []Rule{
		rule("program", Seq(Repeat("_statement_list_item"))),
		rule("_statements", Seq(Repeat1("_statement_list_item"))),
		choiceRule("_statement_list_item", "_statement", "_terminator", "heredoc_body", "heredoc_end"),
		choiceRule("_terminator", ";", "&", "\n"),
		choiceRule("_linebreak", "\n", "heredoc_body", "heredoc_end"),
		choiceRule("_statement", "list", "pipeline", "negated_command", "command"),

		rule("list",
			Seq(Sym("_statement"), Sym("&&"), Repeat("_linebreak"), Sym("_statement")).WithPrec(PrecList, AssocLeft),
			Seq(Sym("_statement"), Sym("||"), Repeat("_linebreak"), Sym("_statement")).WithPrec(PrecList, AssocLeft),
		),
		rule("negated_command",
			Seq(Sym("!"), Sym("_statement")).WithPrec(PrecNegation, AssocRight),
		),
		rule("pipeline",
			Seq(Sym("_statement"), Sym("|"), Repeat("_linebreak"), Sym("_statement")).WithPrec(PrecPipeline, AssocLeft),
			Seq(Sym("_statement"), Sym("|&"), Repeat("_linebreak"), Sym("_statement")).WithPrec(PrecPipeline, AssocLeft),
		),

		supertype("command", "simple_command", "function_definition", "compound_command"),
		supertype("compound_command",
			"if_statement", "while_statement", "until_statement", "for_statement",
			"case_statement", "subshell", "compound_statement"),

		rule("simple_command",
			Seq(Repeat1("_prefix"), Optional("_word").As("name"), Repeat("_suffix")),
			Seq(Sym("_word").As("name"), Repeat("_suffix")),
		),
		rule("_prefix",
			Seq(Sym("variable_assignment").As("assignment")),
			Seq(Sym("redirect").As("redirect")),
		),
		rule("_suffix",
			Seq(Sym("_word").As("argument")),
			Seq(Sym("redirect").As("redirect")),
		),
		rule("variable_assignment",
			Seq(Sym("variable_name").As("name"), Sym("="), Optional("_word").As("value")),
		),

		rule("redirect", Seq(Optional("file_descriptor").As("descriptor"), Sym("_redirection"))),
		rule("_redirection",
			Seq(Sym("_redirect_op").As("operator"), Sym("_word").As("destination")),
			Seq(Sym("_heredoc_op").As("operator"), Sym("heredoc_start").As("delimiter"), Optional("_heredoc_tail")),
		),
		choiceRule("_redirect_op", "<", ">", ">>", "<>", ">&", "<&", ">|", "<<<"),
		choiceRule("_heredoc_op", "<<", "<<-"),
		rule("_heredoc_tail",
			Seq(Sym("\n"), Sym("heredoc_body").As("body"), Optional("heredoc_end").As("end")),
			Seq(Sym("unterminated")),
		),
		rule("heredoc_body", Seq(Repeat("_heredoc_part"), Optional("unterminated"))),
		choiceRule("_heredoc_part",
			"heredoc_content", "simple_expansion", "parameter_expansion",
			"command_substitution", "arithmetic_expansion"),

		rule("if_statement", Seq(
			Sym("if"), Sym("_statements"), Sym("then"), Optional("_statements"),
			Repeat("elif_clause"), Optional("else_clause"), Sym("fi"),
			Repeat("redirect").As("redirect"),
		)),
		rule("elif_clause", Seq(Sym("elif"), Sym("_statements"), Sym("then"), Optional("_statements"))),
		rule("else_clause", Seq(Sym("else"), Optional("_statements"))),
		rule("while_statement", Seq(
			Sym("while"), Sym("_statements"), Sym("do_group").As("body"), Repeat("redirect").As("redirect"),
		)),
		rule("until_statement", Seq(
			Sym("until"), Sym("_statements"), Sym("do_group").As("body"), Repeat("redirect").As("redirect"),
		)),
		rule("do_group", Seq(Sym("do"), Optional("_statements"), Sym("done"))),
		rule("for_statement", Seq(
			Sym("for"), Sym("variable_name").As("variable"), Repeat("\n"), Optional("_for_in"),
			Optional(";"), Repeat("\n"), Sym("do_group").As("body"), Repeat("redirect").As("redirect"),
		)),
		rule("_for_in", Seq(Sym("in"), Repeat("_word").As("value"))),
		rule("case_statement", Seq(
			Sym("case"), Sym("_word").As("value"), Repeat("\n"), Sym("in"),
			Repeat("_case_body_item"), Sym("esac"), Repeat("redirect").As("redirect"),
		)),
		choiceRule("_case_body_item", "case_item", "\n"),
		rule("case_item", Seq(
			Optional("("), Sym("_word").As("value"), Repeat("_pattern_alternative"), Sym(")"),
			Optional("_statements"), Optional("_case_terminator").As("termination"),
		)),
		rule("_pattern_alternative", Seq(Sym("|"), Sym("_word").As("value"))),
		choiceRule("_case_terminator", ";;", ";&", ";;&"),
		rule("subshell", Seq(Sym("("), Sym("_statements"), Sym(")"), Repeat("redirect").As("redirect"))),
		rule("compound_statement", Seq(Sym("{"), Sym("_statements"), Sym("}"), Repeat("redirect").As("redirect"))),
		rule("function_definition",
			Seq(Sym("word").As("name"), Sym("("), Sym(")"), Repeat("\n"), Sym("compound_command").As("body")),
			Seq(Sym("function"), Sym("word").As("name"), Optional("_parens"), Repeat("\n"),
				Sym("compound_command").As("body")),
		),
		rule("_parens", Seq(Sym("("), Sym(")"))),

		choiceRule("_word", "concatenation", "_word_part"),
		choiceRule("_word_part",
			"word", "string", "raw_string", "ansi_c_string", "simple_expansion",
			"parameter_expansion", "command_substitution", "arithmetic_expansion", "unterminated"),
		rule("concatenation", Seq(Sym("_word_part"), Repeat1("_word_part"))),
		rule("string", Seq(Sym("\""), Repeat("_string_part"), Sym("_string_close"))),
		choiceRule("_string_part",
			"string_content", "simple_expansion", "parameter_expansion",
			"command_substitution", "arithmetic_expansion"),
		choiceRule("_string_close", "\"", "unterminated"),
		rule("simple_expansion", Seq(Sym("$"), Sym("_parameter_name"))),
		choiceRule("_parameter_name", "variable_name", "special_variable_name"),
		rule("parameter_expansion", Seq(
			Sym("${"), Optional("_parameter_prefix"), Sym("_parameter_name").As("name"),
			Optional("_parameter_operation"), Sym("_brace_close"),
		)),
		choiceRule("_parameter_prefix", "#", "!"),
		rule("_parameter_operation", Seq(Sym("expansion_operator").As("operator"), Repeat("_word_part"))),
		choiceRule("_brace_close", "}", "unterminated"),
		rule("command_substitution",
			Seq(Sym("$("), Sym("program").As("body"), Sym("_paren_close")),
			Seq(Sym("`"), Sym("program").As("body"), Sym("_backtick_close")),
		),
		choiceRule("_paren_close", ")", "unterminated"),
		choiceRule("_backtick_close", "`", "unterminated"),
		rule("arithmetic_expansion", Seq(Sym("$(("), Repeat("_arithmetic_part"), Sym("_arithmetic_close"))),
		choiceRule("_arithmetic_part",
			"arithmetic_content", "(", ")", "simple_expansion", "parameter_expansion",
			"command_substitution", "arithmetic_expansion"),
		choiceRule("_arithmetic_close", "))", "unterminated"),
	}
}
