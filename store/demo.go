package store

import "github.com/quantumx/qvr-backend/model"

// DemoSystems returns the built-in dataset served when no backend is configured or the
// backend cannot be reached. Each call returns a fresh copy.
func DemoSystems() []model.VulnerableSystem {
	p := model.StringPtr
	return []model.VulnerableSystem{
		{
			ID:                     "1",
			Name:                   "RSA-2048 Public Key Infrastructure",
			Description:            "RSA-2048 is vulnerable to Shor's algorithm on fault-tolerant quantum computers. Current estimates suggest a CRQC with ~20 million noisy qubits could break RSA-2048 in under 8 hours. This affects billions of devices and critical infrastructure worldwide.",
			SystemCategory:         p("Digital Identity"),
			UseCase:                p("Authentication, Digital Signatures, Secure Communications"),
			QuantumRiskLevel:       model.RiskQuantumBroken,
			VulnerabilityLevel:     model.SeverityCritical,
			Score:                  9.8,
			WeaknessReason:         "Public-key factorization vulnerable to Shor's quantum algorithm - can factor large integers in polynomial time",
			CurrentCryptography:    []string{"RSA-2048", "RSA-3072", "RSA-4096"},
			AffectedProtocols:      []string{"TLS 1.2", "SSH", "PGP", "S/MIME", "X.509 Certificates", "HTTPS"},
			QuantumXRecommendation: p("Migrate to hybrid approach:\n• CRYSTALS-Dilithium for signatures\n• CRYSTALS-Kyber for key exchange\n• Implement hybrid TLS 1.3 with PQC cipher suites\n• Timeline: Begin migration immediately, complete within 24 months"),
			Mitigation:             p("Immediate transition to NIST-standardized post-quantum algorithms. Implement hybrid classical-quantum schemes during migration period."),
			DiscoveredDate:         "2024-03-15T00:00:00Z",
			Organization:           "NIST Post-Quantum Cryptography Project",
			Status:                 model.StatusVerified,
		},
		{
			ID:                     "2",
			Name:                   "Elliptic Curve Cryptography (ECC-256)",
			Description:            "ECC is vulnerable to modified Shor's algorithm. Quantum computers can solve the Elliptic Curve Discrete Logarithm Problem (ECDLP) exponentially faster than classical computers. This affects blockchain, cryptocurrency, and modern authentication systems.",
			SystemCategory:         p("Banking & Cryptocurrency"),
			UseCase:                p("Secure transactions, Blockchain consensus, Digital wallets"),
			QuantumRiskLevel:       model.RiskQuantumBroken,
			VulnerabilityLevel:     model.SeverityCritical,
			Score:                  9.5,
			WeaknessReason:         "Elliptic curve discrete logarithm problem solvable via quantum algorithms - basis of cryptocurrency security compromised",
			CurrentCryptography:    []string{"ECDSA", "ECDH", "secp256k1", "P-256", "P-384"},
			AffectedProtocols:      []string{"Bitcoin", "Ethereum", "TLS 1.3 (ECC)", "Signal Protocol", "WhatsApp Encryption"},
			QuantumXRecommendation: p("Cryptocurrency upgrade path:\n• Bitcoin: Implement Taproot with PQC signatures\n• Ethereum: Move to lattice-based signature schemes\n• General: CRYSTALS-Dilithium or Falcon for signatures\n• Timeline: Critical - begin within 12 months"),
			Mitigation:             p("Transition to lattice-based cryptography (CRYSTALS-Kyber/Dilithium) or hash-based signatures (SPHINCS+). For blockchain: coordinate network-wide upgrade."),
			DiscoveredDate:         "2024-02-28T00:00:00Z",
			Organization:           "MIT Quantum Computing & Blockchain Lab",
			Status:                 model.StatusVerified,
		},
		{
			ID:                     "3",
			Name:                   "AES-128 Symmetric Encryption",
			Description:            "Grover's algorithm reduces AES-128's effective security from 128 bits to 64 bits. While still computationally intensive, this falls below recommended security margins for long-term data protection in the quantum era.",
			SystemCategory:         p("Cloud Storage & Data Protection"),
			UseCase:                p("Long-term data encryption, Secure file storage, Database encryption"),
			QuantumRiskLevel:       model.RiskAtRisk,
			VulnerabilityLevel:     model.SeverityHigh,
			Score:                  7.2,
			WeaknessReason:         "Grover's algorithm provides quadratic speedup for key search - reduces 128-bit security to 64-bit equivalent",
			CurrentCryptography:    []string{"AES-128", "AES-128-GCM", "AES-128-CBC"},
			AffectedProtocols:      []string{"TLS 1.3", "IPsec", "WPA3", "FileVault", "BitLocker"},
			QuantumXRecommendation: p("Upgrade to AES-256 immediately for:\n• Long-term data storage (10+ years retention)\n• High-value assets\n• Government/military systems\n• Healthcare records\nAES-256 provides 128-bit quantum security (Grover-resistant)"),
			Mitigation:             p("Upgrade to AES-256 for adequate post-quantum security. AES-256 reduces to 128-bit strength under quantum attack, which remains secure."),
			DiscoveredDate:         "2024-01-10T00:00:00Z",
			Organization:           "NIST Cryptographic Standards",
			Status:                 model.StatusVerified,
		},
		{
			ID:                     "4",
			Name:                   "Diffie-Hellman Key Exchange",
			Description:            "Classical DH key exchange is completely broken by Shor's algorithm, which can efficiently solve the discrete logarithm problem. This affects real-time key establishment for billions of connections daily.",
			SystemCategory:         p("IoT & Device Communication"),
			UseCase:                p("Real-time key exchange, Secure device pairing, VPN establishment"),
			QuantumRiskLevel:       model.RiskQuantumBroken,
			VulnerabilityLevel:     model.SeverityCritical,
			Score:                  9.2,
			WeaknessReason:         "Discrete logarithm problem quantum-solvable - enables passive decryption of past and future communications",
			CurrentCryptography:    []string{"DH-2048", "DHE", "ECDHE"},
			AffectedProtocols:      []string{"TLS", "IKE/IPsec", "SSH", "Signal Protocol", "OpenVPN"},
			QuantumXRecommendation: p("Immediate migration to PQC key exchange:\n• CRYSTALS-Kyber (NIST standard)\n• Hybrid mode: Classical ECDHE + Kyber\n• For IoT: Consider NTRU or FrodoKEM for constrained devices\n• Update all TLS implementations to support PQC cipher suites"),
			Mitigation:             p("Replace with CRYSTALS-Kyber or other NIST-approved post-quantum key encapsulation mechanisms. Implement hybrid schemes during transition."),
			DiscoveredDate:         "2024-04-02T00:00:00Z",
			Organization:           "Stanford Cryptography Research Group",
			Status:                 model.StatusVerified,
		},
		{
			ID:                     "5",
			Name:                   "Healthcare PACS Imaging Systems",
			Description:            "Picture Archiving and Communication Systems (PACS) in healthcare rely on RSA/ECC for patient data encryption and authentication. Medical imaging data has 50+ year retention requirements, making it vulnerable to \"harvest now, decrypt later\" attacks.",
			SystemCategory:         p("Healthcare"),
			UseCase:                p("Medical imaging storage, Patient data protection, HIPAA compliance"),
			QuantumRiskLevel:       model.RiskAtRisk,
			VulnerabilityLevel:     model.SeverityHigh,
			Score:                  8.7,
			WeaknessReason:         "Long-term medical data retention with RSA/ECC encryption vulnerable to future quantum decryption - HIPAA compliance risk",
			CurrentCryptography:    []string{"RSA-2048", "AES-256", "TLS 1.2"},
			AffectedProtocols:      []string{"DICOM", "HL7", "FHIR", "Medical VPN"},
			QuantumXRecommendation: p("Healthcare-specific migration:\n• Implement PQC for new patient data immediately\n• Re-encrypt existing archives with hybrid PQC+AES-256\n• CRYSTALS-Kyber for data encryption\n• CRYSTALS-Dilithium for digital signatures\n• Maintain audit trails for compliance"),
			Mitigation:             p("Urgent: Re-encrypt stored medical imaging with PQC algorithms. Implement hybrid encryption for all new patient data to maintain HIPAA compliance in quantum era."),
			DiscoveredDate:         "2024-03-22T00:00:00Z",
			Organization:           "Healthcare Cybersecurity Alliance",
			Status:                 model.StatusVerified,
		},
		{
			ID:                     "6",
			Name:                   "Satellite Communication Networks",
			Description:            "Military and commercial satellite systems use RSA/ECC for command authentication and data encryption. These systems have 15-20 year operational lifespans, making them vulnerable throughout their service life.",
			SystemCategory:         p("Satellite & Aerospace"),
			UseCase:                p("Satellite command & control, Secure telemetry, GPS authentication"),
			QuantumRiskLevel:       model.RiskQuantumBroken,
			VulnerabilityLevel:     model.SeverityCritical,
			Score:                  9.0,
			WeaknessReason:         "RSA-based satellite command authentication vulnerable to spoofing - potential for unauthorized control of orbital assets",
			CurrentCryptography:    []string{"RSA-2048", "ECDSA P-256", "AES-128"},
			AffectedProtocols:      []string{"CCSDS", "GPS/GNSS", "Satellite TT&C", "Space-to-Ground Links"},
			QuantumXRecommendation: p("Critical aerospace migration:\n• Firmware updates to existing satellites for PQC support\n• CRYSTALS-Dilithium for command authentication\n• Hybrid AES-256 + quantum key distribution (QKD) where feasible\n• Ground station upgrades within 18 months\n• New satellite launches must include PQC from design phase"),
			Mitigation:             p("Deploy firmware updates enabling PQC. For new satellites, integrate quantum-resistant cryptography at design phase. Consider QKD for critical military systems."),
			DiscoveredDate:         "2024-02-15T00:00:00Z",
			Organization:           "Space Force Cyber Command",
			Status:                 model.StatusVerified,
		},
	}
}
