// Package hanzi scans translated text for untranslated CJK ideograph residue.
package hanzi
